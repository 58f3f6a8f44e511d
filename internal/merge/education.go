package merge

import (
	"fmt"

	"github.com/parsecv/blueprint/internal/domain"
)

// EducationResult is the outcome of merging incoming education entries.
type EducationResult struct {
	Merged   []domain.EducationFact
	Changes  []domain.Change
	NewCount int
}

// Education merges incoming education entries into the existing fact
// list using the same fuzzy-identity and first-match policy as
// experience, keyed on institution plus degree similarity.
func Education(existing []domain.EducationFact, incoming []domain.EducationEntry) EducationResult {
	merged := append([]domain.EducationFact(nil), existing...)

	var changes []domain.Change
	newCount := 0

	for _, entry := range incoming {
		if Normalize(entry.Institution) == "" && Normalize(entry.Degree) == "" {
			continue
		}

		idx := -1
		for i := range merged {
			if MatchEducation(merged[i], entry) {
				idx = i
				break
			}
		}

		if idx >= 0 {
			fact := &merged[idx]
			if repeatsEducation(*fact, entry) {
				continue
			}
			if Normalize(entry.Degree) != Normalize(fact.Degree) && len(entry.Degree) > len(fact.Degree) {
				changes = append(changes, domain.Change{
					Type:        domain.ChangeTypeEducation,
					Description: fmt.Sprintf("Updated degree to %q at %s", entry.Degree, fact.Institution),
					Impact:      refinementImpact,
				})
				fact.Degree = entry.Degree
			}
			if entry.Year != "" && (fact.Year == "" || len(entry.Year) > len(fact.Year)) {
				fact.Year = entry.Year
			}
			fact.Confidence = Reinforce(fact.Confidence)
			continue
		}

		merged = append(merged, domain.EducationFact{
			Degree:      entry.Degree,
			Institution: entry.Institution,
			Year:        entry.Year,
			Confidence:  BaselineConfidence,
		})
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeEducation,
			Description: fmt.Sprintf("Added education: %s at %s", entry.Degree, entry.Institution),
			Impact:      experienceImpact,
		})
		newCount++
	}

	return EducationResult{Merged: merged, Changes: changes, NewCount: newCount}
}

// repeatsEducation reports whether the entry is a verbatim repeat of the
// stored credential, in which case the merge leaves it untouched.
func repeatsEducation(fact domain.EducationFact, entry domain.EducationEntry) bool {
	if Normalize(entry.Degree) != Normalize(fact.Degree) {
		return false
	}
	return entry.Year == "" || entry.Year == fact.Year
}
