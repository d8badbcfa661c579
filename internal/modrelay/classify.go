package modrelay

import "strings"

// Category decides which triage channel receives a mirrored message.
type Category string

const (
	CategoryText       Category = "text"
	CategoryAttachment Category = "attachment"
	CategoryURL        Category = "url"
)

// Inbound is the subset of a gateway message the classifier looks at.
type Inbound struct {
	FromBot        bool
	InGuild        bool
	HasAttachments bool
	Content        string
}

// Classify assigns a message to exactly one relay category.
// The second return is false when the message must not be relayed at all:
// bot-authored messages, messages outside a guild, and messages with
// neither text nor attachments.
func Classify(msg Inbound) (Category, bool) {
	if msg.FromBot || !msg.InGuild {
		return "", false
	}

	switch {
	case msg.HasAttachments:
		return CategoryAttachment, true
	case ContainsURL(msg.Content):
		return CategoryURL, true
	case msg.Content != "":
		return CategoryText, true
	}

	return "", false
}

func ContainsURL(s string) bool {
	return strings.Contains(s, "http://") || strings.Contains(s, "https://")
}
