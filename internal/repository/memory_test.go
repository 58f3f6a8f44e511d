package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/pagination"
)

func TestMemoryBlueprintStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlueprintStore()

	first, err := store.GetOrCreate(ctx, "org-1", "subj-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Version)

	second, err := store.GetOrCreate(ctx, "org-1", "subj-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := store.GetOrCreate(ctx, "org-2", "subj-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID, "same subject in another org gets its own blueprint")
}

func TestMemoryBlueprintStore_GetBySubject_NotFound(t *testing.T) {
	store := NewMemoryBlueprintStore()

	_, err := store.GetBySubject(context.Background(), "org-1", "nobody")
	assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)
}

func TestMemoryBlueprintStore_UpdateVersioned(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlueprintStore()

	b, err := store.GetOrCreate(ctx, "org-1", "subj-1")
	require.NoError(t, err)

	updated := *b
	updated.Version = b.Version + 1
	updated.TotalExtractions = 1

	t.Run("succeeds on matching version", func(t *testing.T) {
		require.NoError(t, store.UpdateVersioned(ctx, &updated, b.Version))

		got, err := store.GetBySubject(ctx, "org-1", "subj-1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		stale := updated
		stale.Version = 5
		err := store.UpdateVersioned(ctx, &stale, b.Version)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestMemoryBlueprintStore_ReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlueprintStore()

	b, err := store.GetOrCreate(ctx, "org-1", "subj-1")
	require.NoError(t, err)

	b.Profile.Skills = append(b.Profile.Skills, domain.SkillFact{Name: "Go", Confidence: 0.6})

	fresh, err := store.GetBySubject(ctx, "org-1", "subj-1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Profile.Skills, "mutating a returned blueprint must not leak into the store")
}

func TestMemoryBlueprintStore_ListChanges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlueprintStore()

	b, err := store.GetOrCreate(ctx, "org-1", "subj-1")
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Microsecond)
	var changes []*domain.Change
	for i := 0; i < 5; i++ {
		changes = append(changes, &domain.Change{
			ID:          uuid.NewString(),
			BlueprintID: b.ID,
			Version:     2,
			Type:        domain.ChangeTypeSkill,
			Description: "Added new skill: Go",
			Impact:      0.1,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
	}
	require.NoError(t, store.AppendChanges(ctx, changes))

	t.Run("newest first", func(t *testing.T) {
		page, err := store.ListChanges(ctx, b.ID, nil, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 5)
		assert.False(t, page.HasMore)
		assert.True(t, page.Items[0].CreatedAt.After(page.Items[4].CreatedAt))
	})

	t.Run("cursor pages without overlap", func(t *testing.T) {
		first, err := store.ListChanges(ctx, b.ID, nil, 3)
		require.NoError(t, err)
		require.Len(t, first.Items, 3)
		assert.True(t, first.HasMore)
		require.NotEmpty(t, first.NextCursor)

		cursor, err := pagination.DecodeCursor(first.NextCursor)
		require.NoError(t, err)

		second, err := store.ListChanges(ctx, b.ID, cursor, 3)
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
		assert.False(t, second.HasMore)

		seen := map[string]bool{}
		for _, c := range append(first.Items, second.Items...) {
			assert.False(t, seen[c.ID])
			seen[c.ID] = true
		}
	})

	t.Run("empty log", func(t *testing.T) {
		page, err := store.ListChanges(ctx, uuid.NewString(), nil, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})
}
