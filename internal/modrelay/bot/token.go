package bot

import (
	"fmt"
	"strings"
)

// Action is a moderation action kind.
type Action string

const (
	ActionBan  Action = "ban"
	ActionKick Action = "kick"
	ActionWarn Action = "warn"
)

func (a Action) Label() string {
	switch a {
	case ActionBan:
		return "Ban"
	case ActionKick:
		return "Kick"
	case ActionWarn:
		return "Warn"
	}
	return string(a)
}

// Past is the past-tense form used in notices ("has been banned").
func (a Action) Past() string {
	switch a {
	case ActionBan:
		return "banned"
	case ActionKick:
		return "kicked"
	case ActionWarn:
		return "warned"
	}
	return string(a)
}

// tokenSep never occurs in an action kind, and Discord IDs are numeric.
const tokenSep = "-"

// ActionToken binds an action button to the relayed message and its author.
// It travels through Discord as the component custom ID and comes back on
// the interaction, so the relay post itself holds no state.
type ActionToken struct {
	Action    Action
	MessageID string
	AuthorID  string
}

func (t ActionToken) Encode() string {
	return strings.Join([]string{string(t.Action), t.MessageID, t.AuthorID}, tokenSep)
}

// ParseToken decodes a component custom ID. Tokens are only ever produced by
// Encode, so a failure here means the component is not ours.
func ParseToken(s string) (ActionToken, error) {
	parts := strings.Split(s, tokenSep)
	if len(parts) != 3 {
		return ActionToken{}, fmt.Errorf("token %q: want 3 fields, got %d", s, len(parts))
	}

	action := Action(parts[0])
	switch action {
	case ActionBan, ActionKick, ActionWarn:
	default:
		return ActionToken{}, fmt.Errorf("token %q: unknown action %q", s, parts[0])
	}

	if parts[1] == "" || parts[2] == "" {
		return ActionToken{}, fmt.Errorf("token %q: empty ID field", s)
	}

	return ActionToken{
		Action:    action,
		MessageID: parts[1],
		AuthorID:  parts[2],
	}, nil
}

// Authorized reports whether any of the member's roles is in the allowed set.
func Authorized(memberRoles, allowed []string) bool {
	for _, r := range memberRoles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}
