package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/dto"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
)

// Every event below runs under the per-identity session lock. A transition
// renders its surface first and stores the session only when rendering
// succeeded, so the displayed state and the stored state never diverge.

// HandleStart greets a user and shows either their menu or the department picker
func (uc *UseCase) HandleStart(ctx context.Context, ev dto.StartEvent) error {
	if uc.messenger == nil {
		return notifiererrors.ErrMessengerNotSet
	}

	unlock := uc.sessions.Lock(ev.TelegramID)
	defer unlock()

	user, err := uc.users.GetByTelegramID(ctx, ev.TelegramID)
	switch {
	case err == nil && user.HasDepartment():
		return uc.messenger.SendMenu(ctx, ev.ChatID, welcomeBackMenu(ev.FirstName, user))
	case err == nil || errors.Is(err, notifiererrors.ErrUserNotFound):
		return uc.messenger.SendMenu(ctx, ev.ChatID, departmentPickerMenu(textWelcome))
	default:
		uc.replyFailure(ctx, ev.ChatID)
		return fmt.Errorf("load user: %w", err)
	}
}

// HandleText stores the post text when the sender is composing a post.
// Text from users without a session awaiting it is ignored.
func (uc *UseCase) HandleText(ctx context.Context, ev dto.TextEvent) error {
	if uc.messenger == nil {
		return notifiererrors.ErrMessengerNotSet
	}

	unlock := uc.sessions.Lock(ev.TelegramID)
	defer unlock()

	session, ok := uc.activeSession(ev.TelegramID, entities.StepAwaitingText)
	if !ok {
		return nil
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return notifiererrors.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > consts.MaxMessageLength {
		uc.reply(ctx, ev.ChatID, fmt.Sprintf("Текст слишком длинный: не более %d символов. Отправьте текст короче.", consts.MaxMessageLength))
		return notifiererrors.ErrMessageTooLong
	}

	session.PostText = text
	session.Selected = entities.NewDepartmentSet()
	session.Step = entities.StepAwaitingDepartments

	if err := uc.messenger.SendMenu(ctx, ev.ChatID, departmentSelectMenu(session.Selected)); err != nil {
		return fmt.Errorf("render department selection: %w", err)
	}
	uc.putSession(session)

	return nil
}

// HandleCancelCommand aborts the sender's composition from any step
func (uc *UseCase) HandleCancelCommand(ctx context.Context, sender dto.Sender) error {
	if uc.messenger == nil {
		return notifiererrors.ErrMessengerNotSet
	}

	unlock := uc.sessions.Lock(sender.TelegramID)
	defer unlock()

	if _, ok := uc.sessions.Get(sender.TelegramID); !ok {
		uc.reply(ctx, sender.ChatID, textNothingToCancel)
		return nil
	}

	uc.deleteSession(sender.TelegramID)
	return uc.messenger.SendMenu(ctx, sender.ChatID, entities.Menu{
		Text: textPostCancelled + "\n\n" + textChooseAction,
		Rows: mainMenuRows(true),
	})
}

// HandleCallback decodes a button press and runs the matching transition
func (uc *UseCase) HandleCallback(ctx context.Context, ev dto.CallbackEvent) error {
	if uc.messenger == nil {
		return notifiererrors.ErrMessengerNotSet
	}

	action, err := entities.DecodeAction(ev.Data)
	if err != nil {
		text := "Ошибка"
		if errors.Is(err, notifiererrors.ErrInvalidDepartment) {
			text = answerInvalidDepartment
		}
		uc.answer(ctx, ev.CallbackID, text, false)
		return err
	}

	unlock := uc.sessions.Lock(ev.TelegramID)
	defer unlock()

	switch action.Kind {
	case entities.ActionSelectDepartment:
		return uc.selectDepartment(ctx, ev, action.Department)
	case entities.ActionChangeDepartment:
		return uc.changeDepartment(ctx, ev)
	case entities.ActionCreatePost:
		return uc.createPost(ctx, ev)
	case entities.ActionToggleDepartment:
		return uc.toggleDepartment(ctx, ev, action.Department)
	case entities.ActionToggleAll:
		return uc.toggleAll(ctx, ev)
	case entities.ActionDone:
		return uc.done(ctx, ev)
	case entities.ActionConfirm:
		return uc.confirm(ctx, ev)
	case entities.ActionCancel:
		return uc.cancel(ctx, ev)
	}

	uc.answer(ctx, ev.CallbackID, "Ошибка", false)
	return notifiererrors.ErrInvalidAction
}

func (uc *UseCase) selectDepartment(ctx context.Context, ev dto.CallbackEvent, department string) error {
	isAdmin := consts.IsAdminDepartment(department)

	user := &entities.TelegramUser{
		TelegramID: ev.TelegramID,
		Username:   ev.Username,
		FirstName:  ev.FirstName,
		LastName:   ev.LastName,
		Department: &department,
		IsAdmin:    isAdmin,
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		uc.answer(ctx, ev.CallbackID, textTryAgainLater, false)
		return fmt.Errorf("assign department: %w", err)
	}

	// a user who left the admin department cannot keep composing
	if !isAdmin {
		uc.deleteSession(ev.TelegramID)
	}

	uc.logger.Info().
		Int64("telegram_id", ev.TelegramID).
		Str("department", department).
		Bool("is_admin", isAdmin).
		Msg("Department assigned")

	if err := uc.messenger.EditMenu(ctx, ev.ChatID, ev.MessageID, departmentAssignedMenu(department, isAdmin)); err != nil {
		uc.logger.Warn().Err(err).Int64("telegram_id", ev.TelegramID).Msg("Failed to render department confirmation")
	}
	uc.answer(ctx, ev.CallbackID, "Выбран отдел: "+department, false)

	return nil
}

func (uc *UseCase) changeDepartment(ctx context.Context, ev dto.CallbackEvent) error {
	if err := uc.messenger.EditMenu(ctx, ev.ChatID, ev.MessageID, departmentPickerMenu(textChooseNewDepartment)); err != nil {
		return uc.renderFailed(ctx, ev, err)
	}
	uc.answer(ctx, ev.CallbackID, "", false)
	return nil
}

func (uc *UseCase) createPost(ctx context.Context, ev dto.CallbackEvent) error {
	isAdmin, err := uc.isAdmin(ctx, ev.TelegramID)
	if err != nil {
		uc.answer(ctx, ev.CallbackID, textTryAgainLater, false)
		return err
	}
	if !isAdmin {
		uc.answer(ctx, ev.CallbackID, answerNoRights, true)
		return notifiererrors.ErrNotAdmin
	}

	if err := uc.messenger.SendMenu(ctx, ev.ChatID, awaitTextMenu()); err != nil {
		return uc.renderFailed(ctx, ev, err)
	}
	uc.putSession(entities.NewSession(ev.TelegramID, ev.ChatID))
	uc.answer(ctx, ev.CallbackID, "", false)

	return nil
}

func (uc *UseCase) toggleDepartment(ctx context.Context, ev dto.CallbackEvent, department string) error {
	session, ok := uc.activeSession(ev.TelegramID, entities.StepAwaitingDepartments)
	if !ok {
		return uc.expired(ctx, ev)
	}

	selected := session.Selected.Toggle(department)

	if err := uc.messenger.EditButtons(ctx, ev.ChatID, ev.MessageID, departmentSelectMenu(session.Selected)); err != nil {
		return uc.renderFailed(ctx, ev, err)
	}
	uc.putSession(session)
	uc.answer(ctx, ev.CallbackID, toggleAnswer(department, selected), false)

	return nil
}

func (uc *UseCase) toggleAll(ctx context.Context, ev dto.CallbackEvent) error {
	session, ok := uc.activeSession(ev.TelegramID, entities.StepAwaitingDepartments)
	if !ok {
		return uc.expired(ctx, ev)
	}

	full := session.Selected.ToggleAll()

	if err := uc.messenger.EditButtons(ctx, ev.ChatID, ev.MessageID, departmentSelectMenu(session.Selected)); err != nil {
		return uc.renderFailed(ctx, ev, err)
	}
	uc.putSession(session)

	if full {
		uc.answer(ctx, ev.CallbackID, answerAllSelected, false)
	} else {
		uc.answer(ctx, ev.CallbackID, answerAllCleared, false)
	}

	return nil
}

func (uc *UseCase) done(ctx context.Context, ev dto.CallbackEvent) error {
	session, ok := uc.activeSession(ev.TelegramID, entities.StepAwaitingDepartments)
	if !ok || session.PostText == "" {
		return uc.expired(ctx, ev)
	}

	if session.Selected.Len() == 0 {
		uc.answer(ctx, ev.CallbackID, answerSelectAtLeastOne, true)
		return notifiererrors.ErrEmptySelection
	}

	session.Step = entities.StepAwaitingConfirmation

	if err := uc.messenger.EditMenu(ctx, ev.ChatID, ev.MessageID, confirmationMenu(session.PostText, session.Selected.Ordered())); err != nil {
		return uc.renderFailed(ctx, ev, err)
	}
	uc.putSession(session)
	uc.answer(ctx, ev.CallbackID, "", false)

	return nil
}

func (uc *UseCase) confirm(ctx context.Context, ev dto.CallbackEvent) error {
	session, ok := uc.activeSession(ev.TelegramID, entities.StepAwaitingConfirmation)
	if !ok || session.PostText == "" {
		return uc.expired(ctx, ev)
	}

	user, err := uc.users.GetByTelegramID(ctx, ev.TelegramID)
	if err != nil && !errors.Is(err, notifiererrors.ErrUserNotFound) {
		uc.answer(ctx, ev.CallbackID, textTryAgainLater, false)
		return fmt.Errorf("load user: %w", err)
	}
	if err != nil || !user.IsAdmin {
		uc.deleteSession(ev.TelegramID)
		uc.answer(ctx, ev.CallbackID, answerNoRights, true)
		return notifiererrors.ErrNotAdmin
	}

	departments := session.Selected.Ordered()
	creator := user.ID

	result, err := uc.Publish(ctx, dto.PublishRequest{
		Message:     session.PostText,
		Departments: departments,
		CreatedBy:   &creator,
		Source:      consts.SourceBot,
	})
	if err != nil {
		// session is kept so the admin can press publish again
		uc.answer(ctx, ev.CallbackID, textTryAgainLater, true)
		return err
	}

	uc.deleteSession(ev.TelegramID)

	delivery := entities.DeliveryResult{Sent: result.Sent, Failed: result.Failed}
	if err := uc.messenger.EditMenu(ctx, ev.ChatID, ev.MessageID, publishedMenu(delivery, departments)); err != nil {
		uc.logger.Warn().Err(err).Int64("telegram_id", ev.TelegramID).Msg("Failed to render publish statistics")
	}
	uc.sendMenu(ctx, ev.ChatID, adminMenu())
	uc.answer(ctx, ev.CallbackID, answerPublished, false)

	return nil
}

func (uc *UseCase) cancel(ctx context.Context, ev dto.CallbackEvent) error {
	if _, ok := uc.sessions.Get(ev.TelegramID); !ok {
		return uc.expired(ctx, ev)
	}

	uc.deleteSession(ev.TelegramID)

	if err := uc.messenger.EditMenu(ctx, ev.ChatID, ev.MessageID, entities.Menu{Text: textPostCancelled}); err != nil {
		uc.logger.Warn().Err(err).Int64("telegram_id", ev.TelegramID).Msg("Failed to render cancellation")
	}
	uc.sendMenu(ctx, ev.ChatID, adminMenu())
	uc.answer(ctx, ev.CallbackID, answerCancelled, false)

	return nil
}

// isAdmin reports the stored admin flag; unknown users are not admins
func (uc *UseCase) isAdmin(ctx context.Context, telegramID int64) (bool, error) {
	user, err := uc.users.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, notifiererrors.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	return user.IsAdmin, nil
}

func (uc *UseCase) activeSession(telegramID int64, step entities.Step) (*entities.Session, bool) {
	session, ok := uc.sessions.Get(telegramID)
	if !ok || session.Step != step {
		return nil, false
	}
	return session, true
}

func (uc *UseCase) putSession(session *entities.Session) {
	uc.sessions.Put(session)
	uc.metrics.UpdateActiveSessions(uc.sessions.Len())
}

func (uc *UseCase) deleteSession(telegramID int64) {
	uc.sessions.Delete(telegramID)
	uc.metrics.UpdateActiveSessions(uc.sessions.Len())
}

func (uc *UseCase) expired(ctx context.Context, ev dto.CallbackEvent) error {
	uc.answer(ctx, ev.CallbackID, answerSessionExpired, false)
	return notifiererrors.ErrSessionExpired
}

func (uc *UseCase) renderFailed(ctx context.Context, ev dto.CallbackEvent, err error) error {
	uc.answer(ctx, ev.CallbackID, textTryAgainLater, false)
	return fmt.Errorf("render menu: %w", err)
}

func (uc *UseCase) answer(ctx context.Context, callbackID, text string, alert bool) {
	if err := uc.messenger.AnswerCallback(ctx, callbackID, text, alert); err != nil {
		uc.logger.Warn().Err(err).Str("callback_id", callbackID).Msg("Failed to answer callback")
	}
}

func (uc *UseCase) reply(ctx context.Context, chatID int64, text string) {
	uc.sendMenu(ctx, chatID, entities.Menu{Text: text})
}

func (uc *UseCase) sendMenu(ctx context.Context, chatID int64, menu entities.Menu) {
	if err := uc.messenger.SendMenu(ctx, chatID, menu); err != nil {
		uc.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (uc *UseCase) replyFailure(ctx context.Context, chatID int64) {
	uc.reply(ctx, chatID, textTryAgainLater)
}
