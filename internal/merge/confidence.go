package merge

import "github.com/parsecv/blueprint/internal/domain"

const (
	// BaselineConfidence is assigned to a fact seen in a single extraction.
	BaselineConfidence = 0.6

	// reinforceStep controls how fast repeated confirmation approaches 1.
	reinforceStep = 0.15

	// completenessChecklist is the number of profile aspects that count
	// toward the completeness score: name, contact, summary, skills, and
	// experience-or-education.
	completenessChecklist = 5
)

// Reinforce bumps a confidence value toward 1 with diminishing returns.
// The result never exceeds 1 and never regresses.
func Reinforce(c float64) float64 {
	c += (1 - c) * reinforceStep
	if c > 1 {
		return 1
	}
	return c
}

// ProfileScores holds the aggregate trust metrics for a merged profile.
type ProfileScores struct {
	Confidence   float64
	Completeness float64
}

// Score recomputes the profile-level confidence and completeness from
// scratch. Confidence is the mean of per-category average confidences,
// counting only categories that have facts, so a profile with no
// education entries is not punished for the empty category.
func Score(p domain.ProfileData) ProfileScores {
	var sum float64
	var present int

	if avg, ok := avgSkillConfidence(p.Skills); ok {
		sum += avg
		present++
	}
	if avg, ok := avgExperienceConfidence(p.Experience); ok {
		sum += avg
		present++
	}
	if avg, ok := avgEducationConfidence(p.Education); ok {
		sum += avg
		present++
	}

	var confidence float64
	if present > 0 {
		confidence = sum / float64(present)
	}

	return ProfileScores{
		Confidence:   clamp01(confidence),
		Completeness: clamp01(completeness(p)),
	}
}

func completeness(p domain.ProfileData) float64 {
	satisfied := 0
	if p.Personal.Name != "" {
		satisfied++
	}
	if !p.Contact.IsEmpty() {
		satisfied++
	}
	if p.Personal.Summary != "" {
		satisfied++
	}
	if len(p.Skills) > 0 {
		satisfied++
	}
	if len(p.Experience) > 0 || len(p.Education) > 0 {
		satisfied++
	}
	return float64(satisfied) / float64(completenessChecklist)
}

func avgSkillConfidence(facts []domain.SkillFact) (float64, bool) {
	if len(facts) == 0 {
		return 0, false
	}
	var sum float64
	for _, f := range facts {
		sum += f.Confidence
	}
	return sum / float64(len(facts)), true
}

func avgExperienceConfidence(facts []domain.ExperienceFact) (float64, bool) {
	if len(facts) == 0 {
		return 0, false
	}
	var sum float64
	for _, f := range facts {
		sum += f.Confidence
	}
	return sum / float64(len(facts)), true
}

func avgEducationConfidence(facts []domain.EducationFact) (float64, bool) {
	if len(facts) == 0 {
		return 0, false
	}
	var sum float64
	for _, f := range facts {
		sum += f.Confidence
	}
	return sum / float64(len(facts)), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
