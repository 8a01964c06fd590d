package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/bytehub-dev/bytehub/db"
	"github.com/bytehub-dev/bytehub/internal/config"
	"github.com/bytehub-dev/bytehub/internal/discord"
	"github.com/bytehub-dev/bytehub/internal/dispatch"
	"github.com/bytehub-dev/bytehub/internal/governance"
	"github.com/bytehub-dev/bytehub/internal/handlers"
	"github.com/bytehub-dev/bytehub/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	client := discord.NewClient(cfg.DiscordBotToken, cfg.DiscordApplicationID)

	projects := &governance.ProjectStore{DB: db.DB}
	rules := &governance.RuleStore{DB: db.DB}
	configs := &governance.ConfigStore{DB: db.DB}
	whitelist := &governance.WhitelistStore{DB: db.DB}
	moderators := &governance.ModeratorStore{DB: db.DB}

	dispatcher := &dispatch.Dispatcher{
		Projects:  projects,
		Rules:     rules,
		Configs:   configs,
		Whitelist: whitelist,
		Discord:   client,
	}

	webhook := &handlers.WebhookHandler{
		Secret:     cfg.GithubWebhookSecret,
		Dispatcher: dispatcher,
	}

	interactions := &handlers.InteractionHandler{
		PublicKey:  cfg.DiscordPublicKey,
		Projects:   projects,
		Configs:    configs,
		Whitelist:  whitelist,
		Moderators: moderators,
		Discord:    client,
		Limiter:    discord.NewRateLimiter(time.Minute, 5),
	}

	r := router.NewRouter(webhook, interactions)

	addr := cfg.Host + ":" + cfg.Port
	log.Printf("ByteHub %s listening on %s", handlers.Version, addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
