package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all update handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandlerMatchFunc(isCommand(consts.CommandStart.Name), r.handlers.HandleStart)
	bot.RegisterHandlerMatchFunc(isCommand(consts.CommandCancel.Name), r.handlers.HandleCancel)

	// every button press goes through one decoder
	bot.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, "", tgbot.MatchTypePrefix, r.handlers.HandleCallback)

	bot.RegisterHandlerMatchFunc(isFreeText, r.handlers.HandleText)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

// RegisterCommands publishes the command menu shown by Telegram clients
func (r *Router) RegisterCommands(ctx context.Context, bot *tgbot.Bot) error {
	commands := make([]models.BotCommand, 0, len(consts.AllCommands))
	for _, c := range consts.AllCommands {
		commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
	}

	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	if _, err := bot.SetMyCommands(msgCtx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		return err
	}

	r.logger.Info().Int("count", len(commands)).Msg("Bot commands registered")
	return nil
}

// isCommand matches "/name", "/name payload" and "/name@BotName"
func isCommand(name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		fields := strings.Fields(update.Message.Text)
		if len(fields) == 0 {
			return false
		}
		token, _, _ := strings.Cut(fields[0], "@")
		return token == "/"+name
	}
}

// isFreeText matches non-command text messages
func isFreeText(update *models.Update) bool {
	if update.Message == nil || update.Message.Text == "" {
		return false
	}
	return !strings.HasPrefix(update.Message.Text, "/")
}
