package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"modrelay/internal/modrelay"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kyokomi/emoji/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const relayEmbedColor = 0x5865f2

// relay mirrors a guild message into the triage channel for its category,
// with the moderation buttons attached. Errors are logged and swallowed:
// a failed relay must never take down the event loop that also carries
// the commands.
func (b *Bot) relay(ctx context.Context, s session, m *discordgo.MessageCreate) {
	category, ok := modrelay.Classify(modrelay.Inbound{
		FromBot:        m.Author.Bot,
		InGuild:        m.GuildID != "",
		HasAttachments: len(m.Attachments) > 0,
		Content:        m.Content,
	})
	if !ok {
		if m.GuildID == "" {
			b.logger.Info("message outside a guild, ignoring", zap.String("author", m.Author.ID))
		}
		return
	}

	send := &discordgo.MessageSend{
		Embed:      b.relayEmbed(m),
		Components: actionButtons(m.ID, m.Author.ID),
	}
	if category == modrelay.CategoryAttachment {
		send.Content = emoji.Sprintf(":paperclip: @%s sent attachments:", authorName(m))
		send.Files = b.downloadAttachments(ctx, m.Attachments)
	}

	channelID := b.cfg.channelFor(category)
	_, err := s.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		b.logger.Warn("failed to relay message",
			zap.String("channel", channelID),
			zap.String("category", string(category)),
			zap.String("message", m.ID),
			zap.Error(err),
		)
	}
}

func (b *Bot) relayEmbed(m *discordgo.MessageCreate) *discordgo.MessageEmbed {
	content := m.Content
	if content == "" {
		content = "No text"
	}

	return &discordgo.MessageEmbed{
		Color: relayEmbedColor,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "@" + authorName(m),
			IconURL: m.Author.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Content",
				Value: content,
			},
			{
				Name:  "Original message",
				Value: fmt.Sprintf("[Jump to message](https://discord.com/channels/%s/%s/%s)", m.GuildID, m.ChannelID, m.ID),
			},
		},
	}
}

func actionButtons(messageID, authorID string) []discordgo.MessageComponent {
	styles := []struct {
		action Action
		style  discordgo.ButtonStyle
	}{
		{ActionBan, discordgo.DangerButton},
		{ActionKick, discordgo.PrimaryButton},
		{ActionWarn, discordgo.SuccessButton},
	}

	row := discordgo.ActionsRow{}
	for _, v := range styles {
		token := ActionToken{
			Action:    v.action,
			MessageID: messageID,
			AuthorID:  authorID,
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    v.action.Label(),
			Style:    v.style,
			CustomID: token.Encode(),
		})
	}

	return []discordgo.MessageComponent{row}
}

// downloadAttachments fetches the original attachments so the relay post
// carries its own copies. Failed downloads are dropped from the relay, not
// fatal to it.
func (b *Bot) downloadAttachments(ctx context.Context, attachments []*discordgo.MessageAttachment) []*discordgo.File {
	files := make([]*discordgo.File, len(attachments))

	wg, ctx := errgroup.WithContext(ctx)
	for i := range attachments {
		i, att := i, attachments[i]
		wg.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
			if err != nil {
				return fmt.Errorf("%q request: %w", att.URL, err)
			}

			resp, err := b.http.Do(req)
			if err != nil {
				return fmt.Errorf("%q get: %w", att.URL, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%q get: status %d", att.URL, resp.StatusCode)
			}

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("%q read: %w", att.URL, err)
			}

			files[i] = &discordgo.File{
				Name:        att.Filename,
				ContentType: att.ContentType,
				Reader:      bytes.NewReader(data),
			}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		b.logger.Warn("failed to mirror attachments", zap.Error(err))
	}

	out := make([]*discordgo.File, 0, len(files))
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

func authorName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}
