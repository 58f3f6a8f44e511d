package merge

import (
	"fmt"

	"github.com/parsecv/blueprint/internal/domain"
)

const (
	// experienceImpact is the audit weight of adding a new experience or
	// education fact.
	experienceImpact = 0.15

	// refinementImpact is the audit weight of a material update to an
	// existing fact, such as a role title change.
	refinementImpact = 0.05
)

// ExperienceResult is the outcome of merging incoming experience entries.
type ExperienceResult struct {
	Merged   []domain.ExperienceFact
	Changes  []domain.Change
	NewCount int
}

// Experience merges incoming experience entries into the existing fact
// list. An entry matching an existing fact refines it: the more detailed
// description, highlights and duration win, a changed role title is
// recorded as an update, and confidence is reinforced. Unmatched entries
// become new facts at baseline confidence.
//
// An entry that would match several existing facts merges into the first
// match only, so repeated merges stay deterministic.
func Experience(existing []domain.ExperienceFact, incoming []domain.ExperienceEntry) ExperienceResult {
	merged := make([]domain.ExperienceFact, len(existing))
	for i, f := range existing {
		merged[i] = f
		merged[i].Highlights = append([]string(nil), f.Highlights...)
	}

	var changes []domain.Change
	newCount := 0

	for _, entry := range incoming {
		if Normalize(entry.Company) == "" && Normalize(entry.Role) == "" {
			continue
		}

		idx := -1
		for i := range merged {
			if MatchExperience(merged[i], entry) {
				idx = i
				break
			}
		}

		if idx >= 0 {
			if change := refineExperience(&merged[idx], entry); change != nil {
				changes = append(changes, *change)
			}
			continue
		}

		merged = append(merged, domain.ExperienceFact{
			Role:        entry.Role,
			Company:     entry.Company,
			Duration:    entry.Duration,
			Confidence:  BaselineConfidence,
			Description: entry.Description,
			Highlights:  append([]string(nil), entry.Highlights...),
		})
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeExperience,
			Description: fmt.Sprintf("Added new role: %s at %s", entry.Role, entry.Company),
			Impact:      experienceImpact,
		})
		newCount++
	}

	return ExperienceResult{Merged: merged, Changes: changes, NewCount: newCount}
}

// refineExperience folds a matching entry into an existing fact. Returns
// a Change only when a displayed field materially changed; pure
// reinforcement stays silent. An exact repeat of the stored fact leaves
// it untouched, so re-merging the same extraction converges.
func refineExperience(fact *domain.ExperienceFact, entry domain.ExperienceEntry) *domain.Change {
	if repeatsExperience(*fact, entry) {
		return nil
	}

	var change *domain.Change

	if Normalize(entry.Role) != Normalize(fact.Role) && len(entry.Role) > len(fact.Role) {
		change = &domain.Change{
			Type:        domain.ChangeTypeExperience,
			Description: fmt.Sprintf("Updated role title to %q at %s", entry.Role, fact.Company),
			Impact:      refinementImpact,
		}
		fact.Role = entry.Role
	}

	if moreSpecificDuration(entry.Duration, fact.Duration) {
		fact.Duration = entry.Duration
	}

	if len(entry.Description) > len(fact.Description) {
		fact.Description = entry.Description
	}

	if len(entry.Highlights) > len(fact.Highlights) {
		fact.Highlights = append([]string(nil), entry.Highlights...)
	}

	fact.Confidence = Reinforce(fact.Confidence)

	return change
}

// repeatsExperience reports whether the entry carries nothing beyond
// what the fact already records. Differing details, including a reworded
// role, count as fresh confirmation; a verbatim repeat does not.
func repeatsExperience(fact domain.ExperienceFact, entry domain.ExperienceEntry) bool {
	if Normalize(entry.Role) != Normalize(fact.Role) {
		return false
	}
	if entry.Duration != "" && entry.Duration != fact.Duration {
		return false
	}
	if entry.Description != "" && entry.Description != fact.Description {
		return false
	}
	if len(entry.Highlights) > 0 && !equalStrings(entry.Highlights, fact.Highlights) {
		return false
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// moreSpecificDuration prefers the longer literal duration string; a
// concrete "Jan 2020 - Mar 2023" beats "2020-2022", and anything beats
// an empty value.
func moreSpecificDuration(incoming, current string) bool {
	if incoming == "" {
		return false
	}
	if current == "" {
		return true
	}
	return len(incoming) > len(current)
}
