package merge

import (
	"fmt"

	"github.com/parsecv/blueprint/internal/domain"
)

// contactImpact is the audit weight of filling a single contact field.
const contactImpact = 0.05

// ContactResult is the outcome of merging incoming contact info.
type ContactResult struct {
	Merged  domain.ContactInfo
	Changes []domain.Change
}

// Contact merges incoming contact info into the existing record. Each
// field is filled only when currently absent; a present value is never
// overwritten, so extraction noise cannot clobber a confirmed detail.
func Contact(existing, incoming domain.ContactInfo) ContactResult {
	merged := existing
	var changes []domain.Change

	fill := func(dst *string, src, field string) {
		if *dst != "" || src == "" {
			return
		}
		*dst = src
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeContact,
			Description: fmt.Sprintf("Added contact %s", field),
			Impact:      contactImpact,
		})
	}

	fill(&merged.Email, incoming.Email, "email")
	fill(&merged.Phone, incoming.Phone, "phone")
	fill(&merged.Location, incoming.Location, "location")
	fill(&merged.LinkedIn, incoming.LinkedIn, "linkedin")
	fill(&merged.GitHub, incoming.GitHub, "github")
	fill(&merged.Website, incoming.Website, "website")

	return ContactResult{Merged: merged, Changes: changes}
}

// PersonalResult is the outcome of merging incoming identity fields.
type PersonalResult struct {
	Merged  domain.PersonalInfo
	Changes []domain.Change
}

// Personal fills the subject's name and summary when missing, with the
// same never-overwrite policy as contact fields.
func Personal(existing domain.PersonalInfo, name, summary string) PersonalResult {
	merged := existing
	var changes []domain.Change

	if merged.Name == "" && name != "" {
		merged.Name = name
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeContact,
			Description: "Added name",
			Impact:      contactImpact,
		})
	}

	if merged.Summary == "" && summary != "" {
		merged.Summary = summary
		changes = append(changes, domain.Change{
			Type:        domain.ChangeTypeContact,
			Description: "Added professional summary",
			Impact:      contactImpact,
		})
	}

	return PersonalResult{Merged: merged, Changes: changes}
}
