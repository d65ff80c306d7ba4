package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
	notifiererrors "github.com/bysinka671-afk/notification-bot/internal/domain/notifier/errors"
)

// ActionKind enumerates button actions
type ActionKind int

const (
	ActionSelectDepartment ActionKind = iota + 1
	ActionChangeDepartment
	ActionCreatePost
	ActionToggleDepartment
	ActionToggleAll
	ActionDone
	ActionConfirm
	ActionCancel
)

// Callback payload tokens
const (
	tokenSelectDepartment = "dept"
	tokenToggleDepartment = "toggle"
	tokenChangeDepartment = "change_dept"
	tokenCreatePost       = "create_post"
	tokenToggleAll        = "toggle_all"
	tokenDone             = "done"
	tokenConfirm          = "confirm"
	tokenCancel           = "cancel"
)

// Action is a decoded button press.
// Department is set only for ActionSelectDepartment and ActionToggleDepartment.
type Action struct {
	Kind       ActionKind
	Department string
}

// SelectDepartment picks the user's own department
func SelectDepartment(index int) Action {
	d, _ := consts.DepartmentAt(index)
	return Action{Kind: ActionSelectDepartment, Department: d}
}

// ToggleDepartment flips one department of the post audience
func ToggleDepartment(index int) Action {
	d, _ := consts.DepartmentAt(index)
	return Action{Kind: ActionToggleDepartment, Department: d}
}

// Simple returns a payload-less action
func Simple(kind ActionKind) Action {
	return Action{Kind: kind}
}

// Encode renders the action as callback data
func (a Action) Encode() string {
	switch a.Kind {
	case ActionSelectDepartment:
		return fmt.Sprintf("%s:%d", tokenSelectDepartment, consts.IndexOf(a.Department))
	case ActionToggleDepartment:
		return fmt.Sprintf("%s:%d", tokenToggleDepartment, consts.IndexOf(a.Department))
	case ActionChangeDepartment:
		return tokenChangeDepartment
	case ActionCreatePost:
		return tokenCreatePost
	case ActionToggleAll:
		return tokenToggleAll
	case ActionDone:
		return tokenDone
	case ActionConfirm:
		return tokenConfirm
	case ActionCancel:
		return tokenCancel
	}
	return ""
}

// DecodeAction parses callback data. Department indices are checked
// against the directory, so a decoded action always names a valid department.
func DecodeAction(data string) (Action, error) {
	token, arg, hasArg := strings.Cut(data, ":")

	if !hasArg {
		switch token {
		case tokenChangeDepartment:
			return Simple(ActionChangeDepartment), nil
		case tokenCreatePost:
			return Simple(ActionCreatePost), nil
		case tokenToggleAll:
			return Simple(ActionToggleAll), nil
		case tokenDone:
			return Simple(ActionDone), nil
		case tokenConfirm:
			return Simple(ActionConfirm), nil
		case tokenCancel:
			return Simple(ActionCancel), nil
		}
		return Action{}, fmt.Errorf("%w: %q", notifiererrors.ErrInvalidAction, data)
	}

	var kind ActionKind
	switch token {
	case tokenSelectDepartment:
		kind = ActionSelectDepartment
	case tokenToggleDepartment:
		kind = ActionToggleDepartment
	default:
		return Action{}, fmt.Errorf("%w: %q", notifiererrors.ErrInvalidAction, data)
	}

	index, err := strconv.Atoi(arg)
	if err != nil {
		return Action{}, fmt.Errorf("%w: %q", notifiererrors.ErrInvalidAction, data)
	}

	department, ok := consts.DepartmentAt(index)
	if !ok {
		return Action{}, fmt.Errorf("%w: index %d", notifiererrors.ErrInvalidDepartment, index)
	}

	return Action{Kind: kind, Department: department}, nil
}
