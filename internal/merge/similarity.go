// Package merge implements the pure merge algorithms that consolidate
// repeated CV extractions into a single blueprint profile: fuzzy fact
// matching, confidence arithmetic, and per-category field mergers.
package merge

import (
	"strings"

	"github.com/parsecv/blueprint/internal/domain"
)

// overlapThreshold is the minimum token-overlap ratio (relative to the
// smaller token set) for two role or degree strings to be considered
// the same underlying fact.
const overlapThreshold = 0.5

// Normalize canonicalizes a name for identity comparison: trimmed,
// lowercased, inner whitespace collapsed. Stored values keep their
// original casing; normalization is for matching only.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TokenOverlap returns the ratio of shared tokens between a and b,
// relative to the smaller token set. Returns 0 when either side has no
// tokens.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}

	return float64(shared) / float64(smaller)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// MatchSkill reports whether two skill names refer to the same skill.
func MatchSkill(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

// MatchExperience reports whether an incoming experience entry refers to
// the same underlying role as an existing fact: same company (normalized)
// and high lexical overlap between the role titles. "Developer" and
// "Senior Developer" at the same company match; the same title at a
// different company does not.
func MatchExperience(fact domain.ExperienceFact, entry domain.ExperienceEntry) bool {
	company := Normalize(fact.Company)
	if company == "" || company != Normalize(entry.Company) {
		return false
	}
	return TokenOverlap(fact.Role, entry.Role) >= overlapThreshold
}

// MatchEducation reports whether an incoming education entry refers to
// the same credential as an existing fact: same institution (normalized)
// and high lexical overlap between the degree names.
func MatchEducation(fact domain.EducationFact, entry domain.EducationEntry) bool {
	inst := Normalize(fact.Institution)
	if inst == "" || inst != Normalize(entry.Institution) {
		return false
	}
	return TokenOverlap(fact.Degree, entry.Degree) >= overlapThreshold
}
