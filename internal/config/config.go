package config

import (
	"fmt"
	"os"
)

type Config struct {
	DatabaseURL          string
	GithubWebhookSecret  string
	DiscordPublicKey     string
	DiscordBotToken      string
	DiscordApplicationID string
	DiscordInvite        string
	Host                 string
	Port                 string
}

// Load reads configuration from the environment. Required values missing
// from the environment produce an error rather than a partially usable config.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		GithubWebhookSecret:  os.Getenv("GITHUB_WEBHOOK_SECRET"),
		DiscordPublicKey:     os.Getenv("DISCORD_PUBLIC_KEY"),
		DiscordBotToken:      os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		DiscordInvite:        os.Getenv("DISCORD_INVITE"),
		Host:                 os.Getenv("HOST"),
		Port:                 os.Getenv("PORT"),
	}

	required := map[string]string{
		"DATABASE_URL":           cfg.DatabaseURL,
		"GITHUB_WEBHOOK_SECRET":  cfg.GithubWebhookSecret,
		"DISCORD_PUBLIC_KEY":     cfg.DiscordPublicKey,
		"DISCORD_BOT_TOKEN":      cfg.DiscordBotToken,
		"DISCORD_APPLICATION_ID": cfg.DiscordApplicationID,
	}

	for name, value := range required {
		if value == "" {
			return Config{}, fmt.Errorf("%s is required", name)
		}
	}

	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	return cfg, nil
}
