package domain

import (
	"fmt"
	"time"
)

// ChangeType categorizes what part of the profile a change touched.
type ChangeType string

const (
	ChangeTypeSkill      ChangeType = "skill"
	ChangeTypeExperience ChangeType = "experience"
	ChangeTypeEducation  ChangeType = "education"
	ChangeTypeContact    ChangeType = "contact"
)

// Change is an immutable audit record of one atomic modification made
// during a merge. It is appended to the change log tagged with the
// blueprint version the merge produced and never mutated afterwards.
type Change struct {
	ID          string
	BlueprintID string
	Version     int64
	Type        ChangeType
	Description string
	Impact      float64
	CreatedAt   time.Time
}

// ValidateChange validates a Change instance.
func ValidateChange(c *Change) error {
	if c == nil {
		return fmt.Errorf("change cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("change ID is required")
	}

	if c.BlueprintID == "" {
		return fmt.Errorf("change BlueprintID is required")
	}

	if c.Description == "" {
		return fmt.Errorf("change Description is required")
	}

	if !isValidChangeType(c.Type) {
		return fmt.Errorf("change Type is invalid: %s", c.Type)
	}

	return nil
}

func isValidChangeType(t ChangeType) bool {
	switch t {
	case ChangeTypeSkill, ChangeTypeExperience, ChangeTypeEducation, ChangeTypeContact:
		return true
	}
	return false
}
