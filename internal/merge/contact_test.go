package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsecv/blueprint/internal/domain"
)

func TestContact(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		incoming := domain.ContactInfo{Email: "ada@example.com", GitHub: "ada"}

		res := Contact(domain.ContactInfo{}, incoming)

		assert.Equal(t, "ada@example.com", res.Merged.Email)
		assert.Equal(t, "ada", res.Merged.GitHub)
		require.Len(t, res.Changes, 2)
		assert.Equal(t, "Added contact email", res.Changes[0].Description)
		assert.Equal(t, contactImpact, res.Changes[0].Impact)
	})

	t.Run("never overwrites a present value", func(t *testing.T) {
		existing := domain.ContactInfo{Email: "ada@example.com"}
		incoming := domain.ContactInfo{Email: "other@example.com", Phone: "+1 555 0100"}

		res := Contact(existing, incoming)

		assert.Equal(t, "ada@example.com", res.Merged.Email)
		assert.Equal(t, "+1 555 0100", res.Merged.Phone)
		require.Len(t, res.Changes, 1)
		assert.Equal(t, "Added contact phone", res.Changes[0].Description)
	})

	t.Run("no-op when nothing new", func(t *testing.T) {
		existing := domain.ContactInfo{Email: "ada@example.com"}

		res := Contact(existing, domain.ContactInfo{Email: "other@example.com"})

		assert.Equal(t, existing, res.Merged)
		assert.Empty(t, res.Changes)
	})
}

func TestPersonal(t *testing.T) {
	t.Run("fills name and summary once", func(t *testing.T) {
		res := Personal(domain.PersonalInfo{}, "Ada Lovelace", "Analyst and programmer")

		assert.Equal(t, "Ada Lovelace", res.Merged.Name)
		assert.Equal(t, "Analyst and programmer", res.Merged.Summary)
		require.Len(t, res.Changes, 2)
		assert.Equal(t, "Added name", res.Changes[0].Description)
		assert.Equal(t, "Added professional summary", res.Changes[1].Description)
	})

	t.Run("keeps existing identity", func(t *testing.T) {
		existing := domain.PersonalInfo{Name: "Ada Lovelace"}

		res := Personal(existing, "A. Lovelace", "")

		assert.Equal(t, "Ada Lovelace", res.Merged.Name)
		assert.Empty(t, res.Changes)
	})
}
