package repositories

import (
	"errors"
	"fmt"
	"strings"
)

const (
	unsupportedActionMessageConstant  = "unsupported action"
	unsupportedActionTemplateConstant = "%w %q: expected one of %s"
	actionListSeparatorConstant       = ", "
)

// Action selects what Sync does with each repository.
type Action string

// Supported actions.
const (
	ActionClone  Action = "clone"
	ActionUpdate Action = "update"
)

// SupportedActions lists the actions accepted by ParseAction.
var SupportedActions = []Action{ActionClone, ActionUpdate}

// ErrUnsupportedAction indicates an action outside SupportedActions.
var ErrUnsupportedAction = errors.New(unsupportedActionMessageConstant)

// SupportedActionNames returns the textual form of SupportedActions.
func SupportedActionNames() []string {
	names := make([]string, 0, len(SupportedActions))
	for _, action := range SupportedActions {
		names = append(names, string(action))
	}
	return names
}

// ParseAction normalizes raw and validates it against SupportedActions.
func ParseAction(raw string) (Action, error) {
	normalized := Action(strings.ToLower(strings.TrimSpace(raw)))
	for _, action := range SupportedActions {
		if normalized == action {
			return action, nil
		}
	}
	return "", fmt.Errorf(unsupportedActionTemplateConstant, ErrUnsupportedAction, raw, strings.Join(SupportedActionNames(), actionListSeparatorConstant))
}
