package domain

// ExperienceEntry is one raw work experience entry from an extraction,
// before any confidence is attached.
type ExperienceEntry struct {
	Role        string   `json:"role"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// EducationEntry is one raw education entry from an extraction.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year,omitempty"`
}

// Extraction is one structured CV parse submitted for merging. Every
// field is optional; the merge engine tolerates any subset being absent.
type Extraction struct {
	Name       string            `json:"name,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Contact    ContactInfo       `json:"contact_info,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
}

// IsEmpty reports whether the extraction carries no usable facts at all.
func (e Extraction) IsEmpty() bool {
	return e.Name == "" &&
		e.Summary == "" &&
		e.Contact.IsEmpty() &&
		len(e.Skills) == 0 &&
		len(e.Experience) == 0 &&
		len(e.Education) == 0
}
