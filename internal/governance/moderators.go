package governance

import (
	"errors"

	"github.com/bytehub-dev/bytehub/internal/models"
	"gorm.io/gorm"
)

// ModeratorStore tracks Discord users granted governance privileges
// independently of their guild permission bits.
type ModeratorStore struct {
	DB *gorm.DB
}

// Add records a Discord user as moderator. Adding twice is a no-op.
func (s *ModeratorStore) Add(discordID string) error {
	moderator := models.Moderator{DiscordID: discordID}

	err := s.DB.Create(&moderator).Error

	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	return nil
}

// IsModerator reports whether a Discord user has been recorded.
func (s *ModeratorStore) IsModerator(discordID string) (bool, error) {
	var count int64

	err := s.DB.Model(&models.Moderator{}).
		Where("discord_id = ?", discordID).
		Count(&count).Error

	return count > 0, err
}
