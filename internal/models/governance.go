package models

// WhitelistUser is a GitHub username exempt from bot-actor filtering.
type WhitelistUser struct {
	BaseModel

	GithubUsername string `gorm:"uniqueIndex;not null"`
}

// Moderator is a Discord user granted governance privileges without the
// guild permission bits that normally gate moderator commands.
type Moderator struct {
	BaseModel

	DiscordID string `gorm:"uniqueIndex;not null"`
}
