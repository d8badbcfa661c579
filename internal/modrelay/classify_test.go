package modrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		msg      Inbound
		category Category
		relay    bool
	}{
		{"bot author", Inbound{FromBot: true, InGuild: true, Content: "hello"}, "", false},
		{"bot author with attachments", Inbound{FromBot: true, InGuild: true, HasAttachments: true}, "", false},
		{"outside a guild", Inbound{Content: "hello"}, "", false},
		{"empty message", Inbound{InGuild: true}, "", false},
		{"plain text", Inbound{InGuild: true, Content: "hello"}, CategoryText, true},
		{"http link", Inbound{InGuild: true, Content: "see http://example.com"}, CategoryURL, true},
		{"https link", Inbound{InGuild: true, Content: "https://example.com"}, CategoryURL, true},
		{"attachments without text", Inbound{InGuild: true, HasAttachments: true}, CategoryAttachment, true},
		{"attachments win over url and text", Inbound{InGuild: true, HasAttachments: true, Content: "https://example.com"}, CategoryAttachment, true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			category, relay := Classify(tt.msg)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.relay, relay)
		})
	}
}

func TestContainsURL(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsURL("http://example.com"))
	assert.True(t, ContainsURL("check https://example.com out"))
	assert.False(t, ContainsURL("example.com"))
	assert.False(t, ContainsURL("httpx is not a scheme"))
	assert.False(t, ContainsURL(""))
}
