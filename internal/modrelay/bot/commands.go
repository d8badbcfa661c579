package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kyokomi/emoji/v2"
	"go.uber.org/zap"
)

// sanctionCmd handles !ban, !kick and !warn. The reason is free text and
// passed through literally. The command goes through the same
// notify-then-act step as the button flow: a blocked DM halts the ban or
// kick here too.
func (b *Bot) sanctionCmd(_ context.Context, s session, m *discordgo.MessageCreate, action Action, reason string) {
	if m.GuildID == "" {
		return
	}

	if m.Member == nil || !Authorized(m.Member.Roles, b.cfg.AllowedRoleIDs) {
		_, err := s.ChannelMessageSend(m.ChannelID, "You do not have permission to use this command.")
		if err != nil {
			b.logger.Warn("failed to send message", zap.String("channel", m.ChannelID), zap.Error(err))
		}
		return
	}

	if len(m.Mentions) == 0 {
		_, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Usage: !%s @member [reason]", action))
		if err != nil {
			b.logger.Warn("failed to send message", zap.String("channel", m.ChannelID), zap.Error(err))
		}
		return
	}
	target := m.Mentions[0]

	sn := sanction{
		action:      action,
		guildID:     m.GuildID,
		moderatorID: m.Author.ID,
		targetID:    target.ID,
		reason:      reason,
	}

	if err := b.notifyTarget(s, sn); err != nil {
		b.logger.Info("notice delivery failed",
			zap.String("user", sn.targetID), zap.Error(err))
		_, err := s.ChannelMessageSend(m.ChannelID, emoji.Sprintf(
			":no_entry: Could not deliver a direct notice to %s; the %s was not applied.",
			target.Mention(), action,
		))
		if err != nil {
			b.logger.Warn("failed to send message", zap.String("channel", m.ChannelID), zap.Error(err))
		}
		return
	}

	_, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"%s has been %s. Reason: %s", target.Mention(), action.Past(), sn.reason,
	))
	if err != nil {
		b.logger.Warn("failed to send message", zap.String("channel", m.ChannelID), zap.Error(err))
	}

	if err := b.enforce(s, sn); err != nil {
		b.logger.Warn("failed to apply sanction",
			zap.String("action", string(sn.action)),
			zap.String("user", sn.targetID),
			zap.Error(err),
		)
		return
	}

	b.logAction(s, sn)

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		b.logger.Warn("failed to delete command message",
			zap.String("channel", m.ChannelID), zap.String("message", m.ID), zap.Error(err))
	}
}
