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

func TestAPIKeyRepository_CreateAndGetByHash(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewAPIKeyRepository(pool)

	key := &domain.APIKey{
		ID:        uuid.NewString(),
		OrgID:     org.ID,
		Name:      "ci-key",
		KeyHash:   "deadbeef" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, key))

	retrieved, err := repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	assert.Equal(t, key.ID, retrieved.ID)
	assert.Equal(t, org.ID, retrieved.OrgID)
	assert.Nil(t, retrieved.RevokedAt)
}

func TestAPIKeyRepository_GetByHash_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAPIKeyRepository(pool)

	_, err := repo.GetByHash(ctx, "missing-hash")
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}

func TestAPIKeyRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewAPIKeyRepository(pool)

	key := &domain.APIKey{
		ID:        uuid.NewString(),
		OrgID:     org.ID,
		Name:      "to-revoke",
		KeyHash:   "hash-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Create(ctx, key))

	require.NoError(t, repo.Revoke(ctx, key.ID))

	retrieved, err := repo.GetByHash(ctx, key.KeyHash)
	require.NoError(t, err)
	assert.NotNil(t, retrieved.RevokedAt)

	// Revoking twice is a not-found: the first revoke consumed the row.
	err = repo.Revoke(ctx, key.ID)
	assert.ErrorIs(t, err, domain.ErrAPIKeyNotFound)
}

func TestAPIKeyRepository_GetByOrgID(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	org := createTestOrg(ctx, t, NewOrgRepository(pool))
	repo := NewAPIKeyRepository(pool)

	for i := 0; i < 2; i++ {
		key := &domain.APIKey{
			ID:        uuid.NewString(),
			OrgID:     org.ID,
			Name:      "key",
			KeyHash:   "hash-" + uuid.NewString(),
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second).Truncate(time.Microsecond),
		}
		require.NoError(t, repo.Create(ctx, key))
	}

	keys, err := repo.GetByOrgID(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
