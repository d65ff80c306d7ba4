// Package telegram contains Telegram delivery handlers
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/usecase/business"
	pkgerrors "github.com/bysinka671-afk/notification-bot/pkg/errors"
)

// RequestTimeout bounds a single Telegram API call
const RequestTimeout = 30 * time.Second

// Handlers contains Telegram update handlers
// Implements deps.Messenger interface
type Handlers struct {
	uc     *business.UseCase
	bot    *tgbot.Bot
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, bot *tgbot.Bot, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		bot:    bot,
		logger: logger,
	}
}

// SendMenu implements deps.Messenger interface
func (h *Handlers) SendMenu(ctx context.Context, chatID int64, menu entities.Menu) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.SendMessage(msgCtx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        menu.Text,
		ReplyMarkup: replyMarkup(menu),
	})
	if err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}

	return nil
}

// EditMenu implements deps.Messenger interface
func (h *Handlers) EditMenu(ctx context.Context, chatID int64, messageID int, menu entities.Menu) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageText(msgCtx, &tgbot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        menu.Text,
		ReplyMarkup: replyMarkup(menu),
	})
	if err != nil && !isNotModified(err) {
		return fmt.Errorf("edit message %d: %w", messageID, err)
	}

	return nil
}

// EditButtons implements deps.Messenger interface
func (h *Handlers) EditButtons(ctx context.Context, chatID int64, messageID int, menu entities.Menu) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.EditMessageReplyMarkup(msgCtx, &tgbot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: replyMarkup(menu),
	})
	if err != nil && !isNotModified(err) {
		return fmt.Errorf("edit buttons of message %d: %w", messageID, err)
	}

	return nil
}

// AnswerCallback implements deps.Messenger interface
func (h *Handlers) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	msgCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	_, err := h.bot.AnswerCallbackQuery(msgCtx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	return err
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	sender, ok := senderFromMessage(update.Message)
	if !ok {
		return
	}

	h.logCommand(sender.TelegramID, "/start", "processing")

	if err := h.uc.HandleStart(ctx, dto.StartEvent{Sender: sender}); err != nil {
		h.logError(sender.TelegramID, "/start", err)
		return
	}

	h.logCommand(sender.TelegramID, "/start", "success")
}

// HandleCancel handles /cancel command
func (h *Handlers) HandleCancel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	sender, ok := senderFromMessage(update.Message)
	if !ok {
		return
	}

	if err := h.uc.HandleCancelCommand(ctx, sender); err != nil {
		h.logError(sender.TelegramID, "/cancel", err)
		return
	}

	h.logCommand(sender.TelegramID, "/cancel", "success")
}

// HandleText handles free-text messages
func (h *Handlers) HandleText(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	sender, ok := senderFromMessage(update.Message)
	if !ok {
		return
	}

	if err := h.uc.HandleText(ctx, dto.TextEvent{Sender: sender, Text: update.Message.Text}); err != nil {
		h.logError(sender.TelegramID, "text", err)
	}
}

// HandleCallback handles inline keyboard presses
func (h *Handlers) HandleCallback(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	ev, ok := callbackEvent(update.CallbackQuery)
	if !ok {
		return
	}

	if err := h.uc.HandleCallback(ctx, ev); err != nil {
		h.logCallbackError(ev, err)
		return
	}

	h.logger.Debug().Int64("user_id", ev.TelegramID).Str("data", ev.Data).Msg("Callback processed")
}

// logCallbackError logs rejected presses at warn and failures at error
func (h *Handlers) logCallbackError(ev dto.CallbackEvent, err error) {
	event := h.logger.Error()
	switch pkgerrors.TypeOf(err) {
	case pkgerrors.ErrorTypeValidation, pkgerrors.ErrorTypePermission, pkgerrors.ErrorTypeSessionExpired:
		event = h.logger.Warn()
	}
	event.Int64("user_id", ev.TelegramID).Str("data", ev.Data).Err(err).Msg("Callback rejected")
}

func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

func (h *Handlers) logError(userID int64, command string, err error) {
	event := h.logger.Error()
	if pkgerrors.IsValidationError(err) {
		event = h.logger.Warn()
	}
	event.Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}

// senderFromMessage extracts the sender of a private message
func senderFromMessage(msg *models.Message) (dto.Sender, bool) {
	if msg == nil || msg.From == nil {
		return dto.Sender{}, false
	}

	return dto.Sender{
		TelegramID: msg.From.ID,
		ChatID:     msg.Chat.ID,
		Username:   msg.From.Username,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
	}, true
}

// callbackEvent extracts a button press; presses on messages the bot can no
// longer see still carry their chat and message ids
func callbackEvent(q *models.CallbackQuery) (dto.CallbackEvent, bool) {
	if q == nil {
		return dto.CallbackEvent{}, false
	}

	ev := dto.CallbackEvent{
		Sender: dto.Sender{
			TelegramID: q.From.ID,
			ChatID:     q.From.ID,
			Username:   q.From.Username,
			FirstName:  q.From.FirstName,
			LastName:   q.From.LastName,
		},
		CallbackID: q.ID,
		Data:       q.Data,
	}

	switch {
	case q.Message.Message != nil:
		ev.ChatID = q.Message.Message.Chat.ID
		ev.MessageID = q.Message.Message.ID
	case q.Message.InaccessibleMessage != nil:
		ev.ChatID = q.Message.InaccessibleMessage.Chat.ID
		ev.MessageID = q.Message.InaccessibleMessage.MessageID
	}

	return ev, true
}

// replyMarkup converts a menu keyboard; nil removes the keyboard
func replyMarkup(menu entities.Menu) models.ReplyMarkup {
	if !menu.HasButtons() {
		return nil
	}
	return keyboard(menu)
}

func keyboard(menu entities.Menu) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(menu.Rows))
	for _, r := range menu.Rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Action.Encode(),
			})
		}
		rows = append(rows, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// isNotModified reports Telegram's rejection of an edit that changes nothing
func isNotModified(err error) bool {
	return errors.Is(err, tgbot.ErrorBadRequest) && strings.Contains(err.Error(), "message is not modified")
}
