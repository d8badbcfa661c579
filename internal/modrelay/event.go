package modrelay

import "time"

// Event is one audit record of a moderation action.
type Event struct {
	Date        time.Time `json:"date"`
	ModeratorID string    `json:"moderator_id"`
	Action      string    `json:"action"`
	TargetID    string    `json:"target_id"`
	Reason      string    `json:"reason"`
	MessageID   string    `json:"message_id,omitempty"`
}

func NewEvent(moderatorID, action, targetID, reason, messageID string) Event {
	return Event{
		Date:        time.Now(),
		ModeratorID: moderatorID,
		Action:      action,
		TargetID:    targetID,
		Reason:      reason,
		MessageID:   messageID,
	}
}
