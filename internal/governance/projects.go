package governance

import (
	"errors"
	"strings"

	"github.com/bytehub-dev/bytehub/internal/models"
	"gorm.io/gorm"
)

// ProjectStore owns project identity, approval state and the association to
// a forum channel and guild. All repo-keyed lookups are case-insensitive:
// repos are normalized to lowercase on every read and write path.
type ProjectStore struct {
	DB *gorm.DB
}

// NormalizeRepo lowercases an "owner/repo" key so lookups are case-insensitive.
func NormalizeRepo(repo string) string {
	return strings.ToLower(strings.TrimSpace(repo))
}

// repoName derives the project name from the last path segment of the repo.
func repoName(repo string) string {
	if idx := strings.LastIndex(repo, "/"); idx >= 0 && idx+1 < len(repo) {
		return repo[idx+1:]
	}
	return repo
}

// Submit registers a new, unapproved project. Uniqueness is enforced by the
// unique index on github_repo, so concurrent submissions cannot race past an
// existence check.
func (s *ProjectStore) Submit(repo string) (*models.Project, error) {
	repo = NormalizeRepo(repo)

	project := models.Project{
		Name:       repoName(repo),
		GithubRepo: repo,
	}

	if err := s.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return &project, nil
}

// Approve marks a project as approved, leaving all other fields untouched.
func (s *ProjectStore) Approve(repo string) error {
	project, err := s.Get(repo)

	if err != nil {
		return err
	}

	return s.DB.Model(project).Update("is_approved", true).Error
}

// ApproveWithForum approves a project, assigns its forum channel and guild,
// and seeds the default rule set. The patch and the seeding run in a single
// transaction so a failure cannot leave the project approved without rules.
//
// Seeding is not guarded: approving the same project twice appends a second
// set of default rules. That matches the historical behavior and callers
// rely on deny/resubmit to reset a project's rules.
func (s *ProjectStore) ApproveWithForum(repo, forumChannelID, guildID string) error {
	repo = NormalizeRepo(repo)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		err := tx.Where("github_repo = ?", repo).First(&project).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"is_approved":      true,
			"forum_channel_id": forumChannelID,
			"guild_id":         guildID,
		}

		if err := tx.Model(&project).Updates(updates).Error; err != nil {
			return err
		}

		rules := &RuleStore{DB: tx}
		return rules.SeedDefaults(project.ID)
	})
}

// Deny removes a project and everything it owns. Rules are deleted before
// the project so no orphaned rules can survive the transaction.
func (s *ProjectStore) Deny(repo string) error {
	repo = NormalizeRepo(repo)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project

		err := tx.Where("github_repo = ?", repo).First(&project).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Rule{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})
}

// Get returns a project by repo regardless of approval state.
func (s *ProjectStore) Get(repo string) (*models.Project, error) {
	var project models.Project

	err := s.DB.Where("github_repo = ?", NormalizeRepo(repo)).First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// GetApproved returns a project only if it exists and is approved. An
// unapproved project is reported as not found, so webhook events from
// pending projects are ignored the same way as unknown repos.
func (s *ProjectStore) GetApproved(repo string) (*models.Project, error) {
	var project models.Project

	err := s.DB.
		Where("github_repo = ? AND is_approved = ?", NormalizeRepo(repo), true).
		First(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &project, nil
}

// List returns every registered project in any approval state.
func (s *ProjectStore) List() ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Find(&projects).Error
	return projects, err
}

// ListByGuild returns every project associated with a guild.
func (s *ProjectStore) ListByGuild(guildID string) ([]models.Project, error) {
	var projects []models.Project
	err := s.DB.Where("guild_id = ?", guildID).Find(&projects).Error
	return projects, err
}

// UpdateForumID sets a project's forum channel.
func (s *ProjectStore) UpdateForumID(repo, forumID string) error {
	project, err := s.Get(repo)

	if err != nil {
		return err
	}

	return s.DB.Model(project).Update("forum_channel_id", forumID).Error
}

// UpdateThreadID sets a project's activity thread.
func (s *ProjectStore) UpdateThreadID(repo, threadID string) error {
	project, err := s.Get(repo)

	if err != nil {
		return err
	}

	return s.DB.Model(project).Update("thread_id", threadID).Error
}
