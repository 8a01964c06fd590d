package models

// ServerConfig maps a guild's logical notification roles to concrete
// Discord channel IDs. At most one row per guild.
type ServerConfig struct {
	BaseModel

	GuildID         string `gorm:"uniqueIndex;not null"`
	AnnouncementsID string `gorm:"not null"`
	GithubForumID   string `gorm:"not null"`
	ModCategoryID   *string
	ProjectReviewID *string
	ApprovalsID     *string
}
