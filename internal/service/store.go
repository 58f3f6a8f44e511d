package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/pagination"
)

// BlueprintStore defines the persistence boundary for blueprints and
// their change log. GetOrCreate must be atomic: two concurrent first
// extractions for the same subject must observe the same blueprint row.
// UpdateVersioned is a compare-and-swap on the version read earlier and
// returns domain.ErrVersionConflict when another merge committed first.
type BlueprintStore interface {
	GetOrCreate(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error)
	GetBySubject(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error)
	UpdateVersioned(ctx context.Context, b *domain.Blueprint, expectedVersion int64) error
	AppendChanges(ctx context.Context, changes []*domain.Change) error
	ListChanges(ctx context.Context, blueprintID string, cursor *pagination.Cursor, limit int) (*ChangePageResult, error)
}

// ChangePageResult is one page of the change log, newest first.
type ChangePageResult struct {
	Items      []*domain.Change
	NextCursor string
	HasMore    bool
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
