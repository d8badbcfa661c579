package main

import (
	"context"
	"fmt"
	"modrelay/internal/modrelay"
	"modrelay/internal/modrelay/bot"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger.Info("Starting modrelay")
	defer logger.Sync()
	defer logger.Info("Stopping modrelay")

	ex, err := os.Executable()
	if err != nil {
		logger.Error("Can't get executable path", zap.Error(err))
		return
	}
	exPath := filepath.Dir(ex)
	logger.Info("Executable path", zap.String("path", exPath))

	fd, err := os.Open(filepath.Join(exPath, "config.yaml"))
	if err != nil {
		logger.Error("Can't open config file", zap.Error(err))
		return
	}
	defer fd.Close()

	var cfg modrelay.Config
	err = yaml.NewDecoder(fd).Decode(&cfg)
	if err != nil {
		logger.Error("Can't decode config file", zap.Error(err))
		return
	}
	if err := cfg.IsValid(); err != nil {
		logger.Error("Config is invalid", zap.Error(err))
		return
	}
	logger.Info("Config loaded", zap.Any("config", cfg))

	rules, err := modrelay.LoadRules(filepath.Join(exPath, cfg.RulesFile))
	if err != nil {
		logger.Error("Can't load rules", zap.Error(err))
		return
	}
	logger.Info("Rules loaded", zap.Int("count", len(rules)))

	token := os.Getenv("BOT_DISCORD_TOKEN")
	if token == "" {
		logger.Error("BOT_DISCORD_TOKEN is not set")
		return
	}

	auditFile := cfg.AuditFile
	if auditFile != "" {
		auditFile = filepath.Join(exPath, auditFile)
	}

	bot, err := bot.New(
		bot.Config{
			Token:               token,
			AllowedRoleIDs:      cfg.AllowedRoleIDs,
			TextChannelID:       cfg.Channels.Text,
			AttachmentChannelID: cfg.Channels.Attachment,
			URLChannelID:        cfg.Channels.URL,
			LogChannelID:        cfg.LogChannelID,
			AuditFile:           auditFile,
		},
		rules,
		logger.Named("bot"),
	)
	if err != nil {
		logger.Error("Failed to create bot", zap.Error(err))
		return
	}

	botDone, err := bot.Run(ctx)
	if err != nil {
		logger.Error("Error while running bot", zap.Error(err))
		return
	}

	killSignal := make(chan os.Signal, 1)
	signal.Notify(killSignal, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-killSignal
	cancel()

	<-botDone
}
