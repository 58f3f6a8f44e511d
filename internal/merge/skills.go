package merge

import (
	"fmt"
	"strings"

	"github.com/parsecv/blueprint/internal/domain"
)

// skillImpact is the audit weight of adding a brand-new skill.
const skillImpact = 0.1

// SkillsResult is the outcome of merging an incoming skill list.
type SkillsResult struct {
	Merged   []domain.SkillFact
	Changes  []domain.Change
	NewCount int
}

// Skills merges incoming skill names into the existing fact list. A name
// that normalizes to an existing fact reinforces it: the source is
// recorded (once) and confidence bumped. Unknown names become new facts
// at baseline confidence, keeping the casing of their first occurrence.
//
// Merging the same source twice is a no-op: the membership check on
// Sources prevents double-counting.
func Skills(existing []domain.SkillFact, incoming []string, sourceID string) SkillsResult {
	merged := make([]domain.SkillFact, len(existing))
	for i, f := range existing {
		merged[i] = f
		merged[i].Sources = append([]string(nil), f.Sources...)
	}

	index := make(map[string]int, len(merged))
	for i, f := range merged {
		index[Normalize(f.Name)] = i
	}

	var changes []domain.Change
	newCount := 0

	for _, raw := range incoming {
		name := strings.TrimSpace(raw)
		key := Normalize(name)
		if key == "" {
			continue
		}

		if i, ok := index[key]; ok {
			if !containsSource(merged[i].Sources, sourceID) {
				merged[i].Sources = append(merged[i].Sources, sourceID)
				merged[i].Confidence = Reinforce(merged[i].Confidence)
			}
			continue
		}

		merged = append(merged, domain.SkillFact{
			Name:       name,
			Confidence: BaselineConfidence,
			Sources:    []string{sourceID},
		})
		index[key] = len(merged) - 1
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeSkill,
			Description: fmt.Sprintf("Added new skill: %s", name),
			Impact:      skillImpact,
		})
		newCount++
	}

	return SkillsResult{Merged: merged, Changes: changes, NewCount: newCount}
}

func containsSource(sources []string, sourceID string) bool {
	for _, s := range sources {
		if s == sourceID {
			return true
		}
	}
	return false
}
