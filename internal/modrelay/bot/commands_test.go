package bot

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guildMessage(content string, mentions ...*discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ID:        "789",
			ChannelID: "chan",
			GuildID:   "guild",
			Author:    &discordgo.User{ID: "mod1", Username: "moderator"},
			Member:    &discordgo.Member{Roles: []string{modRoleID}},
			Content:   content,
			Mentions:  mentions,
		},
	}
}

func TestBanCommand(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("!ban <@456> spamming the channel", &discordgo.User{ID: "456", Username: "offender"})
	bot.message(ctx, f, msg)

	// the message itself is relayed first, then the command runs
	assert.Equal(t, []string{"relay", "dm", "ban"}, f.ops)
	assert.Equal(t, "spamming the channel", f.bans["456"])

	require.NotEmpty(t, f.sent["chan"])
	assert.Contains(t, f.sent["chan"][0], "banned")
	assert.Contains(t, f.sent["chan"][0], "spamming the channel")

	require.Len(t, f.sent[logChannelID], 1)
	assert.Equal(t, []string{"chan:789"}, f.deleted)
}

func TestKickCommandBlockedNotice(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()
	f.dmFails = true

	msg := guildMessage("!kick <@456> flooding", &discordgo.User{ID: "456", Username: "offender"})
	bot.message(ctx, f, msg)

	assert.Empty(t, f.kicks, "kick must not be applied when the notice is blocked")
	assert.Empty(t, f.sent[logChannelID])
	assert.Empty(t, f.deleted)

	require.NotEmpty(t, f.sent["chan"])
	assert.Contains(t, f.sent["chan"][0], "not applied")
}

func TestCommandPermissionDenied(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("!ban <@456> spam", &discordgo.User{ID: "456", Username: "offender"})
	msg.Member.Roles = []string{"999"}
	bot.message(ctx, f, msg)

	assert.Empty(t, f.bans)
	assert.Empty(t, f.sent[logChannelID])
	assert.NotContains(t, f.ops, "dm")

	require.NotEmpty(t, f.sent["chan"])
	assert.Contains(t, f.sent["chan"][0], "permission")
}

func TestWarnCommand(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("!warn <@456>", &discordgo.User{ID: "456", Username: "offender"})
	bot.message(ctx, f, msg)

	assert.Equal(t, []string{"relay", "dm"}, f.ops)
	assert.Empty(t, f.bans)
	assert.Empty(t, f.kicks)
	require.Len(t, f.sent[logChannelID], 1)
	assert.Equal(t, []string{"chan:789"}, f.deleted)
}

func TestCommandWithoutMention(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	bot.message(ctx, f, guildMessage("!ban"))

	assert.Empty(t, f.bans)
	require.NotEmpty(t, f.sent["chan"])
	assert.Contains(t, f.sent["chan"][0], "Usage")
}

func TestBotMessagesIgnored(t *testing.T) {
	ctx := context.Background()

	bot := newTestBot(t)
	f := newFakeSession()

	msg := guildMessage("!ban <@456> spam", &discordgo.User{ID: "456", Username: "offender"})
	msg.Author.Bot = true
	bot.message(ctx, f, msg)

	assert.Empty(t, f.ops)
	assert.Empty(t, f.sent)
	assert.Empty(t, f.complex)
}
