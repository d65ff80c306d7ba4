package telegram

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
)

func TestReplyMarkup_EncodesActions(t *testing.T) {
	menu := entities.Menu{
		Text: "Выберите действие:",
		Rows: [][]entities.Button{
			{{Text: "➕ Создать пост", Action: entities.Simple(entities.ActionCreatePost)}},
			{
				{Text: "a", Action: entities.ToggleDepartment(0)},
				{Text: "b", Action: entities.SelectDepartment(8)},
			},
		},
	}

	markup, ok := replyMarkup(menu).(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "create_post", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "toggle:0", markup.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "dept:8", markup.InlineKeyboard[1][1].CallbackData)
	assert.Equal(t, "b", markup.InlineKeyboard[1][1].Text)
}

func TestReplyMarkup_NoButtons(t *testing.T) {
	assert.Nil(t, replyMarkup(entities.Menu{Text: "❌ Создание поста отменено."}))
}

func TestSenderFromMessage(t *testing.T) {
	_, ok := senderFromMessage(nil)
	assert.False(t, ok)

	_, ok = senderFromMessage(&models.Message{Text: "channel post"})
	assert.False(t, ok)

	sender, ok := senderFromMessage(&models.Message{
		From: &models.User{ID: 42, Username: "anna", FirstName: "Анна", LastName: "К"},
		Chat: models.Chat{ID: 4242},
	})
	require.True(t, ok)
	assert.Equal(t, int64(42), sender.TelegramID)
	assert.Equal(t, int64(4242), sender.ChatID)
	assert.Equal(t, "Анна", sender.FirstName)
}

func TestCallbackEvent(t *testing.T) {
	_, ok := callbackEvent(nil)
	assert.False(t, ok)

	ev, ok := callbackEvent(&models.CallbackQuery{
		ID:   "cb1",
		From: models.User{ID: 7, FirstName: "Иван"},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 55, Chat: models.Chat{ID: 700}},
		},
		Data: "toggle:3",
	})
	require.True(t, ok)
	assert.Equal(t, int64(7), ev.TelegramID)
	assert.Equal(t, int64(700), ev.ChatID)
	assert.Equal(t, 55, ev.MessageID)
	assert.Equal(t, "cb1", ev.CallbackID)
	assert.Equal(t, "toggle:3", ev.Data)

	ev, ok = callbackEvent(&models.CallbackQuery{ID: "cb2", From: models.User{ID: 8}, Data: "cancel"})
	require.True(t, ok)
	assert.Equal(t, int64(8), ev.ChatID)
	assert.Equal(t, 0, ev.MessageID)
}

func TestIsFreeText(t *testing.T) {
	assert.False(t, isFreeText(&models.Update{}))
	assert.False(t, isFreeText(&models.Update{Message: &models.Message{Text: "/start"}}))
	assert.False(t, isFreeText(&models.Update{Message: &models.Message{}}))
	assert.True(t, isFreeText(&models.Update{Message: &models.Message{Text: "Server maintenance"}}))
}

func TestIsCommand(t *testing.T) {
	start := isCommand("start")
	msg := func(text string) *models.Update {
		return &models.Update{Message: &models.Message{Text: text}}
	}

	assert.True(t, start(msg("/start")))
	assert.True(t, start(msg("/start invite-42")))
	assert.True(t, start(msg("/start@CorpNotifierBot")))
	assert.True(t, start(msg("  /start  ")))

	assert.False(t, start(msg("/started")))
	assert.False(t, start(msg("/cancel")))
	assert.False(t, start(msg("start")))
	assert.False(t, start(msg("")))
	assert.False(t, start(&models.Update{}))
}
