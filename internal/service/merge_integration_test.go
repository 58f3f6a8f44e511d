//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/repository"
	"github.com/parsecv/blueprint/internal/service"
	"github.com/parsecv/blueprint/internal/testutil"
)

func setupMergeService(ctx context.Context, t *testing.T) (*service.MergeService, string, func()) {
	t.Helper()

	pc := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")

	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      "merge-test-org",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repository.NewOrgRepository(pool).Create(ctx, org))

	store := repository.NewBlueprintRepository(pool)
	svc := service.NewMergeService(store, nil, nil)

	cleanup := func() {
		pool.Close()
		if err := pc.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return svc, org.ID, cleanup
}

func TestMergeService_Integration_FirstMerge(t *testing.T) {
	ctx := context.Background()
	svc, orgID, cleanup := setupMergeService(ctx, t)
	defer cleanup()

	result, err := svc.Merge(ctx, service.MergeInput{
		OrgID:     orgID,
		SubjectID: "subject-1",
		Extraction: domain.Extraction{
			Name:   "Ada Lovelace",
			Skills: []string{"Go", "PostgreSQL"},
			Experience: []domain.ExperienceEntry{
				{Role: "Engineer", Company: "Analytical Engines Ltd"},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Blueprint.Version)
	assert.Equal(t, int64(1), result.Blueprint.TotalExtractions)
	assert.Equal(t, 2, result.Summary.NewSkills)
	assert.Equal(t, 1, result.Summary.NewExperience)
	assert.NotEmpty(t, result.Changes)

	b, err := svc.GetBlueprint(ctx, orgID, "subject-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", b.Profile.Personal.Name)
	assert.Len(t, b.Profile.Skills, 2)
}

func TestMergeService_Integration_RepeatedExtractionIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, orgID, cleanup := setupMergeService(ctx, t)
	defer cleanup()

	extraction := domain.Extraction{
		Name:   "Ada Lovelace",
		Skills: []string{"Go"},
	}

	first, err := svc.Merge(ctx, service.MergeInput{OrgID: orgID, SubjectID: "subject-1", Extraction: extraction})
	require.NoError(t, err)

	second, err := svc.Merge(ctx, service.MergeInput{OrgID: orgID, SubjectID: "subject-1", Extraction: extraction})
	require.NoError(t, err)

	assert.Empty(t, second.Changes)
	assert.Equal(t, first.Blueprint.Version+1, second.Blueprint.Version)
	assert.Equal(t, int64(2), second.Blueprint.TotalExtractions)
	assert.InDelta(t, first.Summary.Confidence, second.Summary.Confidence, 1e-9)
}

func TestMergeService_Integration_ChangeLogPagination(t *testing.T) {
	ctx := context.Background()
	svc, orgID, cleanup := setupMergeService(ctx, t)
	defer cleanup()

	_, err := svc.Merge(ctx, service.MergeInput{
		OrgID:     orgID,
		SubjectID: "subject-1",
		Extraction: domain.Extraction{
			Name:   "Ada Lovelace",
			Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
		},
	})
	require.NoError(t, err)

	var seen []*domain.Change
	cursor := ""
	for {
		page, err := svc.ListChanges(ctx, service.ListChangesInput{
			OrgID:     orgID,
			SubjectID: "subject-1",
			Cursor:    cursor,
			Limit:     2,
		})
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Items), 2)
		seen = append(seen, page.Items...)
		if !page.HasMore {
			break
		}
		require.NotEmpty(t, page.Cursor)
		cursor = page.Cursor
	}

	ids := make(map[string]bool)
	for _, c := range seen {
		ids[c.ID] = true
	}
	assert.GreaterOrEqual(t, len(ids), 4)
	assert.Equal(t, len(seen), len(ids))
}

func TestMergeService_Integration_UnknownSubjectNotFound(t *testing.T) {
	ctx := context.Background()
	svc, orgID, cleanup := setupMergeService(ctx, t)
	defer cleanup()

	_, err := svc.GetBlueprint(ctx, orgID, "nobody")
	assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)
}
