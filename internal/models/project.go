package models

type Project struct {
	BaseModel

	Name           string `gorm:"not null"`
	GithubRepo     string `gorm:"uniqueIndex;size:255;not null"` // lowercase "owner/repo"
	ForumChannelID string
	ThreadID       *string
	GuildID        string `gorm:"index"`
	IsApproved     bool   `gorm:"not null;default:false"`

	// Relationships
	Rules []Rule `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
