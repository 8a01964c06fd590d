package governance

import (
	"github.com/bytehub-dev/bytehub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RuleStore owns the routing rules belonging to a project. Rules are
// immutable once created: only creation and cascade-deletion (via
// ProjectStore.Deny) exist.
type RuleStore struct {
	DB *gorm.DB
}

// GetByProject returns a project's rules ordered by descending priority.
func (s *RuleStore) GetByProject(projectID uint) ([]models.Rule, error) {
	var rules []models.Rule

	err := s.DB.
		Where("project_id = ?", projectID).
		Order("priority desc, id desc").
		Find(&rules).Error

	return rules, err
}

// Create inserts a single rule. Condition and action shapes are the
// caller's responsibility.
func (s *RuleStore) Create(projectID uint, priority int, conditions models.RuleConditions, actions models.RuleActions) (*models.Rule, error) {
	rule := models.Rule{
		ProjectID:  projectID,
		Priority:   priority,
		Conditions: datatypes.NewJSONType(conditions),
		Actions:    datatypes.NewJSONType(actions),
	}

	if err := s.DB.Create(&rule).Error; err != nil {
		return nil, err
	}

	return &rule, nil
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

type defaultRule struct {
	conditions models.RuleConditions
	actions    models.RuleActions
}

// defaultRules is the fixed seed set for newly approved projects. Each rule
// gets its list index as priority, so issues.opened ends up with the highest
// numeric priority and is evaluated first. Inherited ordering; keep as is.
func defaultRules() []defaultRule {
	return []defaultRule{
		{
			conditions: models.RuleConditions{EventType: strptr("workflow_run.completed")},
			actions:    models.RuleActions{PostForum: true, PostAnnounce: false},
		},
		{
			conditions: models.RuleConditions{EventType: strptr("release.published")},
			actions:    models.RuleActions{PostForum: true, PostAnnounce: true},
		},
		{
			conditions: models.RuleConditions{EventType: strptr("pull_request.closed"), Merged: boolptr(true)},
			actions:    models.RuleActions{PostForum: true, PostAnnounce: false},
		},
		{
			conditions: models.RuleConditions{EventType: strptr("issues.opened")},
			actions:    models.RuleActions{PostForum: true, PostAnnounce: false},
		},
	}
}

// SeedDefaults inserts the default rule set for a project. Callers invoking
// this twice get two copies of the set; there is no already-seeded guard.
func (s *RuleStore) SeedDefaults(projectID uint) error {
	for i, def := range defaultRules() {
		if _, err := s.Create(projectID, i, def.conditions, def.actions); err != nil {
			return err
		}
	}

	return nil
}
