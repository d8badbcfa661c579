package bot

import (
	"context"
	"modrelay/internal/modrelay"
	"modrelay/internal/modrelay/bot/repository"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// session is the slice of *discordgo.Session the handlers use.
type session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID string, messageID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	GuildMember(guildID string, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildBanCreateWithReason(guildID string, userID string, reason string, days int, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReason(guildID string, userID string, reason string, options ...discordgo.RequestOption) error
}

type Bot struct {
	cfg    Config
	logger *zap.Logger

	rules  modrelay.Rules
	claims *Claims
	audit  *repository.Audit

	http *http.Client
}

type Config struct {
	Token string

	AllowedRoleIDs []string

	TextChannelID       string
	AttachmentChannelID string
	URLChannelID        string

	// Optional audit sinks; empty disables the sink.
	LogChannelID string
	AuditFile    string
}

func (cfg Config) channelFor(c modrelay.Category) string {
	switch c {
	case modrelay.CategoryAttachment:
		return cfg.AttachmentChannelID
	case modrelay.CategoryURL:
		return cfg.URLChannelID
	}
	return cfg.TextChannelID
}

func New(cfg Config, rules modrelay.Rules, logger *zap.Logger) (*Bot, error) {
	logger.Info("bot created",
		zap.Strings("allowed_roles", cfg.AllowedRoleIDs),
		zap.String("text_channel", cfg.TextChannelID),
		zap.String("attachment_channel", cfg.AttachmentChannelID),
		zap.String("url_channel", cfg.URLChannelID),
		zap.String("log_channel", cfg.LogChannelID),
		zap.String("audit_file", cfg.AuditFile),
		zap.Int("rules", len(rules)),
	)

	bot := Bot{
		cfg:    cfg,
		logger: logger,

		rules:  rules,
		claims: NewClaims(),

		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if cfg.AuditFile != "" {
		bot.audit = repository.NewAudit(cfg.AuditFile)
	}

	return &bot, nil
}

func (b *Bot) Run(ctx context.Context) (chan struct{}, error) {
	done := make(chan struct{})

	dg, err := discordgo.New("Bot " + b.cfg.Token)
	if err != nil {
		return nil, err
	}

	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		b.ready(s, event)
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.message(ctx, s, m)
	})
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.interaction(ctx, s, i)
	})

	if err := dg.Open(); err != nil {
		return nil, err
	}
	b.logger.Info("discord bot opened")

	go func() {
		defer close(done)
		defer b.logger.Info("discord bot closed")
		defer dg.Close()

		<-ctx.Done()
	}()

	return done, nil
}

func (b *Bot) ready(s *discordgo.Session, _ *discordgo.Ready) {
	s.UpdateGameStatus(0, "watching the rules")
	b.logger.Info("discord bot ready")
}

// message mirrors the inbound message into its triage channel first, then
// dispatches moderator commands. The relay must finish (or be abandoned)
// before the same message is processed as a command.
func (b *Bot) message(ctx context.Context, s session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	b.relay(ctx, s, m)

	fields := strings.Fields(m.Content)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "!") {
		return
	}
	cmd := fields[0]

	var reason string
	if len(fields) > 2 {
		reason = strings.Join(fields[2:], " ")
	}

	switch {
	case strings.EqualFold(cmd, "!ban"):
		b.sanctionCmd(ctx, s, m, ActionBan, reason)
	case strings.EqualFold(cmd, "!kick"):
		b.sanctionCmd(ctx, s, m, ActionKick, reason)
	case strings.EqualFold(cmd, "!warn"):
		b.sanctionCmd(ctx, s, m, ActionWarn, reason)
	}
}
