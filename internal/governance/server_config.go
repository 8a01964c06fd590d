package governance

import (
	"errors"

	"github.com/bytehub-dev/bytehub/internal/models"
	"gorm.io/gorm"
)

// ConfigStore owns the per-guild channel configuration.
type ConfigStore struct {
	DB *gorm.DB
}

// Get returns the configuration for a guild.
func (s *ConfigStore) Get(guildID string) (*models.ServerConfig, error) {
	var config models.ServerConfig

	err := s.DB.Where("guild_id = ?", guildID).First(&config).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &config, nil
}

// Save upserts a guild's configuration. When the incoming values are
// field-for-field identical to the stored row, no write is performed, so
// repeated saves of the same content never touch the row's UpdatedAt or
// trigger spurious write conflicts.
func (s *ConfigStore) Save(config models.ServerConfig) (*models.ServerConfig, error) {
	var existing models.ServerConfig

	err := s.DB.Where("guild_id = ?", config.GuildID).First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		config.BaseModel = models.BaseModel{}
		if err := s.DB.Create(&config).Error; err != nil {
			return nil, err
		}
		return &config, nil
	}

	if sameConfig(existing, config) {
		return &existing, nil
	}

	updates := map[string]interface{}{
		"announcements_id":  config.AnnouncementsID,
		"github_forum_id":   config.GithubForumID,
		"mod_category_id":   config.ModCategoryID,
		"project_review_id": config.ProjectReviewID,
		"approvals_id":      config.ApprovalsID,
	}

	if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &existing, nil
}

func sameConfig(a, b models.ServerConfig) bool {
	return a.AnnouncementsID == b.AnnouncementsID &&
		a.GithubForumID == b.GithubForumID &&
		samePtr(a.ModCategoryID, b.ModCategoryID) &&
		samePtr(a.ProjectReviewID, b.ProjectReviewID) &&
		samePtr(a.ApprovalsID, b.ApprovalsID)
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
