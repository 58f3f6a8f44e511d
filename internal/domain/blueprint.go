package domain

import (
	"fmt"
	"time"
)

// PersonalInfo holds the subject's identity fields.
type PersonalInfo struct {
	Name    string `json:"name,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ContactInfo holds the subject's contact fields. Every field is
// independently optional.
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// IsEmpty reports whether no contact field is set.
func (c ContactInfo) IsEmpty() bool {
	return c == ContactInfo{}
}

// SkillFact is one skill with the confidence accumulated across extractions.
// Sources lists the content hashes of the extractions that confirmed it,
// in first-seen order, without duplicates.
type SkillFact struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// ExperienceFact is one work experience entry. Identity across extractions
// is fuzzy: same company plus a role with high token overlap.
type ExperienceFact struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration,omitempty"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// EducationFact is one education entry, keyed fuzzily on institution
// plus degree.
type EducationFact struct {
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Year        string  `json:"year,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// ProfileData is the merged profile document stored on a blueprint.
type ProfileData struct {
	Personal   PersonalInfo     `json:"personal"`
	Contact    ContactInfo      `json:"contact"`
	Experience []ExperienceFact `json:"experience"`
	Education  []EducationFact  `json:"education"`
	Skills     []SkillFact      `json:"skills"`
}

// Blueprint is the durable, per-subject merged profile. It is created
// lazily on the first extraction for a subject and mutated only by the
// merge engine under optimistic version control.
type Blueprint struct {
	ID               string
	OrgID            string
	SubjectID        string
	Profile          ProfileData
	TotalExtractions int64
	ConfidenceScore  float64
	DataCompleteness float64
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidateBlueprint validates a Blueprint instance.
func ValidateBlueprint(b *Blueprint) error {
	if b == nil {
		return fmt.Errorf("blueprint cannot be nil")
	}

	if b.ID == "" {
		return fmt.Errorf("blueprint ID is required")
	}

	if b.OrgID == "" {
		return fmt.Errorf("blueprint OrgID is required")
	}

	if b.SubjectID == "" {
		return fmt.Errorf("blueprint SubjectID is required")
	}

	if b.Version < 0 {
		return fmt.Errorf("blueprint Version cannot be negative")
	}

	if b.ConfidenceScore < 0 || b.ConfidenceScore > 1 {
		return fmt.Errorf("blueprint ConfidenceScore must be in [0,1]: %f", b.ConfidenceScore)
	}

	if b.DataCompleteness < 0 || b.DataCompleteness > 1 {
		return fmt.Errorf("blueprint DataCompleteness must be in [0,1]: %f", b.DataCompleteness)
	}

	return nil
}

// Clone returns a deep copy of the profile so concurrent merges never
// alias slices of the same blueprint.
func (p ProfileData) Clone() ProfileData {
	out := p

	if p.Skills != nil {
		out.Skills = make([]SkillFact, len(p.Skills))
		for i, s := range p.Skills {
			out.Skills[i] = s
			if s.Sources != nil {
				out.Skills[i].Sources = append([]string(nil), s.Sources...)
			}
		}
	}

	if p.Experience != nil {
		out.Experience = make([]ExperienceFact, len(p.Experience))
		for i, e := range p.Experience {
			out.Experience[i] = e
			if e.Highlights != nil {
				out.Experience[i].Highlights = append([]string(nil), e.Highlights...)
			}
		}
	}

	if p.Education != nil {
		out.Education = append([]EducationFact(nil), p.Education...)
	}

	return out
}
