package bot

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayRouting(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		content string
		channel string
	}{
		{"plain text", "hello there", "text-channel"},
		{"http link", "look at http://example.com", "url-channel"},
		{"https link", "https://example.com", "url-channel"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			bot := newTestBot(t)
			f := newFakeSession()

			bot.relay(ctx, f, guildMessage(tt.content))

			require.Len(t, f.complex, 1, "exactly one triage channel must receive the relay")
			require.Len(t, f.complex[tt.channel], 1)

			send := f.complex[tt.channel][0]
			require.NotNil(t, send.Embed)
			assert.NotEmpty(t, send.Components)
		})
	}
}

func TestRelaySkipped(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	dm := guildMessage("hello")
	dm.GuildID = ""
	bot.relay(ctx, f, dm)

	fromBot := guildMessage("hello")
	fromBot.Author.Bot = true
	bot.relay(ctx, f, fromBot)

	empty := guildMessage("")
	bot.relay(ctx, f, empty)

	assert.Empty(t, f.complex)
}

func TestRelayEmbed(t *testing.T) {
	is := is.New(t)

	bot := newTestBot(t)

	embed := bot.relayEmbed(guildMessage("hello there"))
	is.Equal(embed.Author.Name, "@moderator")
	is.Equal(embed.Fields[0].Value, "hello there")
	is.Equal(embed.Fields[1].Value, "[Jump to message](https://discord.com/channels/guild/chan/789)")

	embed = bot.relayEmbed(guildMessage(""))
	is.Equal(embed.Fields[0].Value, "No text")
}

func TestActionButtons(t *testing.T) {
	is := is.New(t)

	components := actionButtons("123", "456")
	is.Equal(len(components), 1)

	row, ok := components[0].(discordgo.ActionsRow)
	is.True(ok)
	is.Equal(len(row.Components), 3)

	expected := []string{"ban-123-456", "kick-123-456", "warn-123-456"}
	for i, c := range row.Components {
		button, ok := c.(discordgo.Button)
		is.True(ok)
		is.Equal(button.CustomID, expected[i])
	}
}

func TestRelayAttachments(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("file payload"))
	}))
	defer srv.Close()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("with file")
	msg.Attachments = []*discordgo.MessageAttachment{
		{Filename: "evidence.png", URL: srv.URL + "/evidence.png"},
	}

	bot.relay(ctx, f, msg)

	require.Len(t, f.complex["attachment-channel"], 1)
	send := f.complex["attachment-channel"][0]

	require.Len(t, send.Files, 1)
	assert.Equal(t, "evidence.png", send.Files[0].Name)

	data, err := io.ReadAll(send.Files[0].Reader)
	require.NoError(t, err)
	assert.Equal(t, "file payload", string(data))
}

func TestRelayAttachmentsDownloadFailure(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("with file")
	msg.Attachments = []*discordgo.MessageAttachment{
		{Filename: "gone.png", URL: srv.URL + "/gone.png"},
	}

	bot.relay(ctx, f, msg)

	// the relay still goes out, just without the file
	require.Len(t, f.complex["attachment-channel"], 1)
	assert.Empty(t, f.complex["attachment-channel"][0].Files)
}
