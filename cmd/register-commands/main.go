// Registers ByteHub's slash commands with Discord. Run once per deployment,
// or with GUILD_ID set to register against a single guild for faster
// iteration.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/bytehub-dev/bytehub/internal/discord"
)

const optionTypeString = 3

func commands() []discord.Command {
	repoOption := discord.CommandOption{
		Type:        optionTypeString,
		Name:        "repo",
		Description: "GitHub repository (owner/repo)",
		Required:    true,
	}

	return []discord.Command{
		{
			Name:        "submit-project",
			Description: "Submit a GitHub project for approval",
			Options:     []discord.CommandOption{repoOption},
		},
		{
			Name:        "approve",
			Description: "Approve a project and create its forum channel",
			Options:     []discord.CommandOption{repoOption},
		},
		{
			Name:        "deny",
			Description: "Deny a project and remove it",
			Options:     []discord.CommandOption{repoOption},
		},
		{
			Name:        "list",
			Description: "List registered projects",
		},
		{
			Name:        "whitelist-user",
			Description: "Whitelist a GitHub username",
			Options: []discord.CommandOption{
				{
					Type:        optionTypeString,
					Name:        "username",
					Description: "GitHub username",
					Required:    true,
				},
			},
		},
		{
			Name:        "setup-server",
			Description: "Create the standard ByteHub channels for this server",
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	token := os.Getenv("DISCORD_BOT_TOKEN")
	applicationID := os.Getenv("DISCORD_APPLICATION_ID")

	if token == "" || applicationID == "" {
		log.Fatal("DISCORD_BOT_TOKEN and DISCORD_APPLICATION_ID are required")
	}

	client := discord.NewClient(token, applicationID)

	if guildID := os.Getenv("GUILD_ID"); guildID != "" {
		if err := client.RegisterGuildCommands(guildID, commands()); err != nil {
			log.Fatalf("Failed to register guild commands: %v", err)
		}
		log.Printf("Registered %d commands for guild %s", len(commands()), guildID)
		return
	}

	if err := client.RegisterGlobalCommands(commands()); err != nil {
		log.Fatalf("Failed to register global commands: %v", err)
	}

	log.Printf("Registered %d global commands", len(commands()))
}
