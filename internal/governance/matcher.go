package governance

import (
	"sort"

	"github.com/bytehub-dev/bytehub/internal/models"
)

// Evaluate scans a project's rules in descending priority order and returns
// the action set of the first rule whose conditions all hold. A condition
// left unset is a wildcard. The second return value reports whether any rule
// matched; no match is an expected outcome, not an error.
//
// The sort is stable, so equal-priority rules keep the store's retrieval
// order. Evaluate never mutates its input.
func Evaluate(rules []models.Rule, eventKey string, isMerged bool) (models.RuleActions, bool) {
	sorted := make([]models.Rule, len(rules))
	copy(sorted, rules)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	for _, rule := range sorted {
		cond := rule.Conditions.Data()

		if cond.EventType != nil && *cond.EventType != "" && *cond.EventType != eventKey {
			continue
		}

		if cond.Merged != nil && *cond.Merged != isMerged {
			continue
		}

		return rule.Actions.Data(), true
	}

	return models.RuleActions{}, false
}
