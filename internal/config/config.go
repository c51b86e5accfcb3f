// Package config assembles the startup configuration from the environment.
// Secrets (LLM API key, email credentials) are never read anywhere else;
// components receive them through this struct at construction time.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultRecipient is the fixed back-office address that receives upload
	// and escalation notifications.
	DefaultRecipient = "info@eastridge-analytics.com"

	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	EnvAPIKey        = "ANTHROPIC_API_KEY"
	EnvRecipient     = "DESK_RECIPIENT"
	EnvSMTPHost      = "DESK_SMTP_HOST"
	EnvSMTPPort      = "DESK_SMTP_PORT"
	EnvEmailAddress  = "DESK_EMAIL_ADDRESS"
	EnvEmailPassword = "DESK_EMAIL_PASSWORD"
)

type LLM struct {
	APIKey string
}

type SMTP struct {
	Host     string
	Port     int
	Address  string
	Password string
}

type Config struct {
	Recipient string
	LLM       LLM
	SMTP      SMTP
}

// FromEnv builds the configuration. A missing LLM API key aborts startup;
// missing email credentials only mean notifications will fail at send time.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Recipient: envOr(EnvRecipient, DefaultRecipient),
		LLM: LLM{
			APIKey: strings.TrimSpace(os.Getenv(EnvAPIKey)),
		},
		SMTP: SMTP{
			Host:     envOr(EnvSMTPHost, DefaultSMTPHost),
			Port:     envIntOr(EnvSMTPPort, DefaultSMTPPort),
			Address:  strings.TrimSpace(os.Getenv(EnvEmailAddress)),
			Password: os.Getenv(EnvEmailPassword),
		},
	}
	if cfg.LLM.APIKey == "" {
		return nil, errors.New(EnvAPIKey + " is not set")
	}
	return cfg, nil
}

// HasMailCredentials reports whether the notifier can authenticate.
func (c *Config) HasMailCredentials() bool {
	return c.SMTP.Address != "" && c.SMTP.Password != ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
