package bot

import (
	"context"
	"fmt"
	"modrelay/internal/modrelay"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/kyokomi/emoji/v2"
	"go.uber.org/zap"
)

const (
	// reasonPrefix marks the select menu that carries the chosen rule back.
	reasonPrefix = "reason:"

	ruleDescriptionLen = 50
)

// sanction is the in-flight state of one moderation action. messageID is
// empty when the action came from a command instead of a relay button.
type sanction struct {
	action      Action
	guildID     string
	moderatorID string
	targetID    string
	reason      string
	messageID   string
}

// Claims marks (message, author) pairs that already have a moderator working
// on them, so two moderators don't sanction the same report twice.
type Claims struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func NewClaims() *Claims {
	return &Claims{
		mu: sync.Mutex{},
		m:  make(map[string]struct{}),
	}
}

func (c *Claims) Claim(messageID, authorID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(messageID, authorID)
	if _, ok := c.m[key]; ok {
		return false
	}
	c.m[key] = struct{}{}
	return true
}

func (c *Claims) Release(messageID, authorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.m, c.key(messageID, authorID))
}

func (c *Claims) key(messageID, authorID string) string {
	return fmt.Sprintf("%s:%s", messageID, authorID)
}

func (b *Bot) interaction(ctx context.Context, s session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		// Components only exist on guild relay posts.
		return
	}

	data := i.MessageComponentData()
	if encoded, ok := strings.CutPrefix(data.CustomID, reasonPrefix); ok {
		b.reasonChosen(ctx, s, i, encoded, data.Values)
		return
	}
	b.actionPressed(ctx, s, i, data.CustomID)
}

// actionPressed handles a moderation button on a relay post: decode, check
// the moderator's roles, resolve the target, claim the report and open the
// reason selection.
func (b *Bot) actionPressed(_ context.Context, s session, i *discordgo.InteractionCreate, customID string) {
	token, err := ParseToken(customID)
	if err != nil {
		b.logger.Warn("unexpected component", zap.String("custom_id", customID), zap.Error(err))
		return
	}

	if !Authorized(i.Member.Roles, b.cfg.AllowedRoleIDs) {
		b.ephemeral(s, i, emoji.Sprint(":no_entry_sign:")+" You do not have permission to use this button.")
		return
	}

	target, err := s.GuildMember(i.GuildID, token.AuthorID)
	if err != nil {
		b.logger.Info("sanction target not found",
			zap.String("user", token.AuthorID), zap.Error(err))
		b.ephemeral(s, i, "The user is no longer on the server.")
		return
	}

	if !b.claims.Claim(token.MessageID, token.AuthorID) {
		b.ephemeral(s, i, "Another moderator is already handling this report.")
		return
	}

	options := make([]discordgo.SelectMenuOption, 0, len(b.rules))
	for _, id := range b.rules.IDs() {
		options = append(options, discordgo.SelectMenuOption{
			Label:       fmt.Sprintf("Rule %s", id),
			Value:       id,
			Description: modrelay.Shorten(b.rules.Text(id), ruleDescriptionLen),
		})
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("You are about to **%s** @%s. Select the reason for the sanction:",
				token.Action, target.User.Username),
			Flags: discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    reasonPrefix + token.Encode(),
							Placeholder: "Select the reason for the sanction...",
							Options:     options,
						},
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Warn("failed to open reason selection", zap.Error(err))
		b.claims.Release(token.MessageID, token.AuthorID)
	}
}

// reasonChosen applies the sanction once the moderator has picked a rule.
// The target is notified first; a ban or kick happens only after the notice
// went through.
func (b *Bot) reasonChosen(_ context.Context, s session, i *discordgo.InteractionCreate, encoded string, values []string) {
	token, err := ParseToken(encoded)
	if err != nil {
		b.logger.Warn("unexpected reason component", zap.String("custom_id", encoded), zap.Error(err))
		return
	}
	if len(values) != 1 {
		b.logger.Warn("reason selection without a value", zap.String("custom_id", encoded))
		return
	}
	ruleID := values[0]

	sn := sanction{
		action:      token.Action,
		guildID:     i.GuildID,
		moderatorID: i.Member.User.ID,
		targetID:    token.AuthorID,
		reason:      fmt.Sprintf("Rule %s: %s", ruleID, b.rules.Text(ruleID)),
		messageID:   token.MessageID,
	}

	if err := b.notifyTarget(s, sn); err != nil {
		b.logger.Info("notice delivery failed",
			zap.String("user", sn.targetID), zap.Error(err))
		b.ephemeral(s, i, "Could not deliver a direct notice to the user; they may have DMs disabled. No action was taken.")
		b.claims.Release(token.MessageID, token.AuthorID)
		return
	}

	b.ephemeral(s, i, emoji.Sprintf(":hammer: <@%s> has been **%s**. Reason: **Rule %s**.",
		sn.targetID, sn.action.Past(), ruleID))

	if err := b.enforce(s, sn); err != nil {
		b.logger.Warn("failed to apply sanction",
			zap.String("action", string(sn.action)),
			zap.String("user", sn.targetID),
			zap.Error(err),
		)
		return
	}

	b.logAction(s, sn)
}

// notifyTarget delivers the direct notice. Both flows call this before any
// platform action is taken.
func (b *Bot) notifyTarget(s session, sn sanction) error {
	ch, err := s.UserChannelCreate(sn.targetID)
	if err != nil {
		return fmt.Errorf("dm channel: %w", err)
	}

	msg := fmt.Sprintf("You have been **%s**. Reason: %s", sn.action.Past(), sn.reason)
	if sn.messageID != "" {
		msg = fmt.Sprintf("%s\nMessage that caused the sanction: %s", msg, sn.messageID)
	}

	_, err = s.ChannelMessageSend(ch.ID, msg)
	if err != nil {
		return fmt.Errorf("dm send: %w", err)
	}
	return nil
}

// enforce applies the platform-level effect. Warn has none.
func (b *Bot) enforce(s session, sn sanction) error {
	switch sn.action {
	case ActionBan:
		return s.GuildBanCreateWithReason(sn.guildID, sn.targetID, sn.reason, 0)
	case ActionKick:
		return s.GuildMemberDeleteWithReason(sn.guildID, sn.targetID, sn.reason)
	}
	return nil
}

func (b *Bot) logAction(s session, sn sanction) {
	event := modrelay.NewEvent(sn.moderatorID, string(sn.action), sn.targetID, sn.reason, sn.messageID)

	if b.cfg.LogChannelID != "" {
		msg := fmt.Sprintf(
			"**Moderator:** <@%s>\n**Action:** %s\n**User:** <@%s>\n**Reason:** %s\n**Date:** <t:%d:F>",
			sn.moderatorID, sn.action.Label(), sn.targetID, sn.reason, event.Date.Unix(),
		)
		if sn.messageID != "" {
			msg = fmt.Sprintf("%s\n**Message ID:** %s", msg, sn.messageID)
		}

		_, err := s.ChannelMessageSend(b.cfg.LogChannelID, msg)
		if err != nil {
			b.logger.Warn("failed to send audit message",
				zap.String("channel", b.cfg.LogChannelID), zap.Error(err))
		}
	}

	if b.audit != nil {
		if err := b.audit.AddEvent(event); err != nil {
			b.logger.Warn("failed to log event", zap.Any("event", event), zap.Error(err))
		}
	}
}

func (b *Bot) ephemeral(s session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("failed to respond to interaction", zap.Error(err))
	}
}
