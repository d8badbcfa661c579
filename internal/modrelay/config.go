package modrelay

import (
	"fmt"
)

type Channels struct {
	Text       string `yaml:"text"`
	Attachment string `yaml:"attachment"`
	URL        string `yaml:"url"`
}

type Config struct {
	RulesFile      string   `yaml:"rules_file"`
	AllowedRoleIDs []string `yaml:"allowed_role_ids"`
	Channels       Channels `yaml:"channels"`

	// Both are optional: an empty value disables that audit sink.
	LogChannelID string `yaml:"log_channel_id"`
	AuditFile    string `yaml:"audit_file"`
}

func (cfg Config) IsValid() error {
	if cfg.RulesFile == "" {
		return fmt.Errorf("rules_file must not be empty")
	}

	if len(cfg.AllowedRoleIDs) == 0 {
		return fmt.Errorf("allowed_role_ids must not be empty")
	}
	for i, id := range cfg.AllowedRoleIDs {
		if id == "" {
			return fmt.Errorf("allowed role %d must not be empty", i)
		}
	}

	if cfg.Channels.Text == "" {
		return fmt.Errorf("text channel ID must not be empty")
	}
	if cfg.Channels.Attachment == "" {
		return fmt.Errorf("attachment channel ID must not be empty")
	}
	if cfg.Channels.URL == "" {
		return fmt.Errorf("url channel ID must not be empty")
	}

	return nil
}
