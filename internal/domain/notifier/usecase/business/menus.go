package business

import (
	"fmt"
	"strings"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/entities"
)

// Bot texts
const (
	textWelcome = `👋 Добро пожаловать в систему корпоративных уведомлений!

Этот бот создан для информирования сотрудников компании о важных событиях и технических работах.

Когда происходит что-то важное (например, технические проблемы с сервером), администраторы бота отправляют уведомление всем сотрудникам или определенным отделам.

📌 Чтобы начать, выберите ваш отдел из списка ниже:`

	textChooseNewDepartment = "Выберите новый отдел:"
	textAwaitPostText       = "📝 Отправьте текст уведомления, которое хотите разместить.\n\nМожете использовать несколько строк. После отправки вы сможете выбрать отделы."
	textPostSaved           = "📝 Текст поста сохранен!\n\nТеперь выберите отделы, которым нужно отправить это уведомление:"
	textChooseAction        = "Выберите действие:"
	textPostCancelled       = "❌ Создание поста отменено."
	textNothingToCancel     = "Нет активного создания поста."
	textTryAgainLater       = "Произошла ошибка. Попробуйте позже."

	answerInvalidDepartment = "Ошибка выбора отдела"
	answerNoRights          = "У вас нет прав для создания постов"
	answerSessionExpired    = "Сессия истекла. Начните создание поста заново."
	answerSelectAtLeastOne  = "Выберите хотя бы один отдел"
	answerAllSelected       = "Все отделы выбраны"
	answerAllCleared        = "Все отделы сняты"
	answerPublished         = "Уведомление опубликовано!"
	answerCancelled         = "Отменено"

	labelCreatePost       = "➕ Создать пост"
	labelChangeDepartment = "🔄 Изменить отдел"
	labelSelectAll        = "✅ Выбрать все"
	labelClearAll         = "❌ Снять все"
	labelCancel           = "❌ Отменить"
	labelPublish          = "✅ Опубликовать"
)

func row(buttons ...entities.Button) []entities.Button {
	return buttons
}

// mainMenuRows is the admin or regular user menu
func mainMenuRows(isAdmin bool) [][]entities.Button {
	changeDepartment := row(entities.Button{Text: labelChangeDepartment, Action: entities.Simple(entities.ActionChangeDepartment)})
	if !isAdmin {
		return [][]entities.Button{changeDepartment}
	}
	return [][]entities.Button{
		row(entities.Button{Text: labelCreatePost, Action: entities.Simple(entities.ActionCreatePost)}),
		changeDepartment,
	}
}

// adminMenu is shown after a composition ends
func adminMenu() entities.Menu {
	return entities.Menu{Text: textChooseAction, Rows: mainMenuRows(true)}
}

// departmentPickerMenu lets a user choose their own department
func departmentPickerMenu(text string) entities.Menu {
	rows := make([][]entities.Button, 0, len(consts.Departments))
	for i, d := range consts.Departments {
		rows = append(rows, row(entities.Button{Text: d, Action: entities.SelectDepartment(i)}))
	}
	return entities.Menu{Text: text, Rows: rows}
}

func welcomeBackMenu(firstName string, user *entities.TelegramUser) entities.Menu {
	var b strings.Builder
	fmt.Fprintf(&b, "Добро пожаловать обратно, %s!\n\n", firstName)
	fmt.Fprintf(&b, "Ваш отдел: %s\n", *user.Department)
	if user.IsAdmin {
		b.WriteString("Статус: Администратор\n")
	}
	b.WriteString("\nВы будете получать уведомления, адресованные вашему отделу.")

	return entities.Menu{Text: b.String(), Rows: mainMenuRows(user.IsAdmin)}
}

func departmentAssignedMenu(department string, isAdmin bool) entities.Menu {
	var b strings.Builder
	b.WriteString("✅ Отлично!\n\n")
	fmt.Fprintf(&b, "Ваш отдел: %s\n", department)
	if isAdmin {
		b.WriteString("Статус: Администратор\n")
	}
	b.WriteString("\nВы будете получать уведомления, адресованные вашему отделу.")
	if isAdmin {
		b.WriteString("\n\nКак администратор, вы можете создавать уведомления для других отделов.")
	}

	return entities.Menu{Text: b.String(), Rows: mainMenuRows(isAdmin)}
}

// awaitTextMenu prompts for the post text
func awaitTextMenu() entities.Menu {
	return entities.Menu{
		Text: textAwaitPostText,
		Rows: [][]entities.Button{row(entities.Button{Text: labelCancel, Action: entities.Simple(entities.ActionCancel)})},
	}
}

// departmentSelectMenu is the multi-select surface of the post audience
func departmentSelectMenu(selected entities.DepartmentSet) entities.Menu {
	rows := make([][]entities.Button, 0, len(consts.Departments)+3)
	for i, d := range consts.Departments {
		mark := "☐"
		if selected.Has(d) {
			mark = "✅"
		}
		rows = append(rows, row(entities.Button{Text: mark + " " + d, Action: entities.ToggleDepartment(i)}))
	}

	aggregate := labelSelectAll
	if selected.AllSelected() {
		aggregate = labelClearAll
	}
	rows = append(rows, row(entities.Button{Text: aggregate, Action: entities.Simple(entities.ActionToggleAll)}))

	if n := selected.Len(); n > 0 {
		rows = append(rows, row(entities.Button{Text: fmt.Sprintf("✔️ Готово (%d)", n), Action: entities.Simple(entities.ActionDone)}))
	}

	rows = append(rows, row(entities.Button{Text: labelCancel, Action: entities.Simple(entities.ActionCancel)}))

	return entities.Menu{Text: textPostSaved, Rows: rows}
}

// confirmationMenu previews the post before publishing
func confirmationMenu(text string, departments []string) entities.Menu {
	var b strings.Builder
	b.WriteString("📢 Подтвердите публикацию:\n\n")
	fmt.Fprintf(&b, "📝 Текст:\n%s\n\n", text)
	fmt.Fprintf(&b, "👥 Отделы (%d):\n", len(departments))
	for _, d := range departments {
		fmt.Fprintf(&b, "• %s\n", d)
	}
	b.WriteString("\nОтправить уведомление?")

	return entities.Menu{
		Text: b.String(),
		Rows: [][]entities.Button{
			row(entities.Button{Text: labelPublish, Action: entities.Simple(entities.ActionConfirm)}),
			row(entities.Button{Text: labelCancel, Action: entities.Simple(entities.ActionCancel)}),
		},
	}
}

// publishedMenu replaces the confirmation once the broadcast is done
func publishedMenu(result entities.DeliveryResult, departments []string) entities.Menu {
	text := fmt.Sprintf(
		"✅ Уведомление опубликовано!\n\n📊 Статистика:\n✅ Отправлено: %d\n❌ Ошибок: %d\n\n👥 Отделы: %s",
		result.Sent, result.Failed, strings.Join(departments, ", "),
	)
	return entities.Menu{Text: text}
}

func toggleAnswer(department string, selected bool) string {
	if selected {
		return "Выбран: " + department
	}
	return "Убран: " + department
}
