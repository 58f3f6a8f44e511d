package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/pagination"
	"github.com/parsecv/blueprint/internal/service"
)

// MemoryBlueprintStore is an in-memory implementation of
// service.BlueprintStore with the same atomicity guarantees as the
// Postgres store. It backs tests and makes the merge engine runnable
// without a database.
type MemoryBlueprintStore struct {
	mu         sync.Mutex
	blueprints map[string]*domain.Blueprint
	changes    map[string][]*domain.Change
}

// NewMemoryBlueprintStore creates an empty in-memory store.
func NewMemoryBlueprintStore() *MemoryBlueprintStore {
	return &MemoryBlueprintStore{
		blueprints: make(map[string]*domain.Blueprint),
		changes:    make(map[string][]*domain.Change),
	}
}

func subjectKey(orgID, subjectID string) string {
	return orgID + "/" + subjectID
}

// GetOrCreate returns the subject's blueprint, creating an empty one at
// version 1 if none exists. Creation and lookup happen under one lock,
// so concurrent first extractions observe the same row.
func (s *MemoryBlueprintStore) GetOrCreate(_ context.Context, orgID, subjectID string) (*domain.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subjectKey(orgID, subjectID)
	if b, ok := s.blueprints[key]; ok {
		return snapshot(b), nil
	}

	b := &domain.Blueprint{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		SubjectID: subjectID,
		Version:   1,
	}
	s.blueprints[key] = b
	return snapshot(b), nil
}

// GetBySubject returns the subject's blueprint without creating one.
func (s *MemoryBlueprintStore) GetBySubject(_ context.Context, orgID, subjectID string) (*domain.Blueprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blueprints[subjectKey(orgID, subjectID)]
	if !ok {
		return nil, domain.ErrBlueprintNotFound
	}
	return snapshot(b), nil
}

// UpdateVersioned replaces the stored blueprint only if its current
// version still matches expectedVersion.
func (s *MemoryBlueprintStore) UpdateVersioned(_ context.Context, b *domain.Blueprint, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subjectKey(b.OrgID, b.SubjectID)
	current, ok := s.blueprints[key]
	if !ok {
		return domain.ErrBlueprintNotFound
	}
	if current.Version != expectedVersion {
		return domain.ErrVersionConflict
	}

	s.blueprints[key] = snapshot(b)
	return nil
}

// AppendChanges appends audit records to the change log.
func (s *MemoryBlueprintStore) AppendChanges(_ context.Context, changes []*domain.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range changes {
		record := *c
		s.changes[c.BlueprintID] = append(s.changes[c.BlueprintID], &record)
	}
	return nil
}

// ListChanges pages through the change log newest first, using the same
// keyset semantics as the Postgres store.
func (s *MemoryBlueprintStore) ListChanges(_ context.Context, blueprintID string, cursor *pagination.Cursor, limit int) (*service.ChangePageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*domain.Change, len(s.changes[blueprintID]))
	copy(all, s.changes[blueprintID])

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	items := make([]*domain.Change, 0, limit)
	remaining := 0
	for _, c := range all {
		if cursor != nil && !afterCursor(c, cursor) {
			continue
		}
		if len(items) < limit {
			record := *c
			items = append(items, &record)
		} else {
			remaining++
		}
	}

	result := &service.ChangePageResult{Items: items, HasMore: remaining > 0}
	if result.HasMore && len(items) > 0 {
		last := items[len(items)-1]
		result.NextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}
	return result, nil
}

// afterCursor reports whether c sorts strictly after the cursor position
// in newest-first order.
func afterCursor(c *domain.Change, cursor *pagination.Cursor) bool {
	if c.CreatedAt.Before(cursor.Timestamp) {
		return true
	}
	return c.CreatedAt.Equal(cursor.Timestamp) && c.ID < cursor.LastID
}

func snapshot(b *domain.Blueprint) *domain.Blueprint {
	out := *b
	out.Profile = b.Profile.Clone()
	return &out
}
