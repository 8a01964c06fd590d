package governance

import (
	"errors"
	"strings"

	"github.com/bytehub-dev/bytehub/internal/models"
	"gorm.io/gorm"
)

// WhitelistStore tracks GitHub usernames exempt from bot-actor filtering.
type WhitelistStore struct {
	DB *gorm.DB
}

// AddUser records a username. Adding the same user twice is a no-op.
func (s *WhitelistStore) AddUser(githubUsername string) error {
	user := models.WhitelistUser{
		GithubUsername: strings.ToLower(githubUsername),
	}

	err := s.DB.Create(&user).Error

	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	return nil
}

// IsWhitelisted reports whether a username has been recorded.
func (s *WhitelistStore) IsWhitelisted(githubUsername string) (bool, error) {
	var count int64

	err := s.DB.Model(&models.WhitelistUser{}).
		Where("github_username = ?", strings.ToLower(githubUsername)).
		Count(&count).Error

	return count > 0, err
}
