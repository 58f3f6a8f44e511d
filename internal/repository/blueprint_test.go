//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/testutil"
)

func createTestOrg(ctx context.Context, t *testing.T, orgRepo *OrgRepository) *domain.Organization {
	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      "Test Org " + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, orgRepo.Create(ctx, org))
	return org
}

func TestBlueprintRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewBlueprintRepository(pool)

	first, err := repo.GetOrCreate(ctx, org.ID, "subject-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, int64(0), first.TotalExtractions)

	second, err := repo.GetOrCreate(ctx, org.ID, "subject-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestBlueprintRepository_GetBySubject_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewBlueprintRepository(pool)

	_, err := repo.GetBySubject(ctx, org.ID, "nobody")
	assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)
}

func TestBlueprintRepository_UpdateVersioned(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewBlueprintRepository(pool)

	b, err := repo.GetOrCreate(ctx, org.ID, "subject-1")
	require.NoError(t, err)

	updated := *b
	updated.Profile.Skills = []domain.SkillFact{{Name: "Go", Confidence: 0.6, Sources: []string{"src-1"}}}
	updated.TotalExtractions = 1
	updated.ConfidenceScore = 0.6
	updated.DataCompleteness = 0.2
	updated.Version = b.Version + 1
	updated.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	require.NoError(t, repo.UpdateVersioned(ctx, &updated, b.Version))

	got, err := repo.GetBySubject(ctx, org.ID, "subject-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	require.Len(t, got.Profile.Skills, 1)
	assert.Equal(t, "Go", got.Profile.Skills[0].Name)
	assert.Equal(t, []string{"src-1"}, got.Profile.Skills[0].Sources)

	// A second writer that read version 1 must lose.
	stale := updated
	stale.Version = b.Version + 1
	err = repo.UpdateVersioned(ctx, &stale, b.Version)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestBlueprintRepository_Changes(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewBlueprintRepository(pool)

	b, err := repo.GetOrCreate(ctx, org.ID, "subject-1")
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
	require.NoError(t, repo.AppendChanges(ctx, changes))

	page, err := repo.ListChanges(ctx, b.ID, nil, 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
	assert.True(t, page.Items[0].CreatedAt.After(page.Items[2].CreatedAt))
}
