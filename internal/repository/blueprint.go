// Package repository implements Postgres persistence for blueprints,
// their change log, organizations, and API keys.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/pagination"
	"github.com/parsecv/blueprint/internal/service"
)

// dbtx is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type BlueprintRepository struct {
	db dbtx
}

func NewBlueprintRepository(pool *pgxpool.Pool) *BlueprintRepository {
	return &BlueprintRepository{db: pool}
}

const blueprintColumns = `id, org_id, subject_id, profile, total_extractions, confidence_score, data_completeness, version, created_at, updated_at`

// GetOrCreate returns the subject's blueprint, inserting an empty one at
// version 1 if none exists. The insert races safely: ON CONFLICT DO
// NOTHING plus the follow-up select means concurrent first extractions
// converge on a single row.
func (r *BlueprintRepository) GetOrCreate(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error) {
	now := time.Now().UTC()
	profile, err := json.Marshal(domain.ProfileData{})
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO blueprints (`+blueprintColumns+`)
		 VALUES ($1, $2, $3, $4, 0, 0, 0, 1, $5, $5)
		 ON CONFLICT (org_id, subject_id) DO NOTHING`,
		uuid.NewString(), orgID, subjectID, profile, now,
	)
	if err != nil {
		return nil, err
	}

	return r.GetBySubject(ctx, orgID, subjectID)
}

// GetBySubject returns the subject's blueprint without creating one.
func (r *BlueprintRepository) GetBySubject(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+blueprintColumns+` FROM blueprints WHERE org_id = $1 AND subject_id = $2`,
		orgID, subjectID,
	)
	return scanBlueprint(row)
}

// UpdateVersioned writes the merged blueprint conditioned on the version
// the caller read. Zero rows affected means another merge committed
// first; the row itself is known to exist because merges always pass
// through GetOrCreate.
func (r *BlueprintRepository) UpdateVersioned(ctx context.Context, b *domain.Blueprint, expectedVersion int64) error {
	profile, err := json.Marshal(b.Profile)
	if err != nil {
		return err
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE blueprints
		 SET profile = $1, total_extractions = $2, confidence_score = $3, data_completeness = $4, version = $5, updated_at = $6
		 WHERE id = $7 AND version = $8`,
		profile, b.TotalExtractions, b.ConfidenceScore, b.DataCompleteness, b.Version, b.UpdatedAt, b.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// AppendChanges inserts audit records in one round trip.
func (r *BlueprintRepository) AppendChanges(ctx context.Context, changes []*domain.Change) error {
	if len(changes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range changes {
		batch.Queue(
			`INSERT INTO blueprint_changes (id, blueprint_id, version, change_type, description, impact, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.BlueprintID, c.Version, c.Type, c.Description, c.Impact, c.CreatedAt,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range changes {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// ListChanges pages through a blueprint's change log newest first.
func (r *BlueprintRepository) ListChanges(ctx context.Context, blueprintID string, cursor *pagination.Cursor, limit int) (*service.ChangePageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, blueprint_id, version, change_type, description, impact, created_at
			 FROM blueprint_changes
			 WHERE blueprint_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			blueprintID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, blueprint_id, version, change_type, description, impact, created_at
			 FROM blueprint_changes
			 WHERE blueprint_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			blueprintID, limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Change
	for rows.Next() {
		var c domain.Change
		if err := rows.Scan(&c.ID, &c.BlueprintID, &c.Version, &c.Type, &c.Description, &c.Impact, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.ChangePageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func scanBlueprint(row pgx.Row) (*domain.Blueprint, error) {
	var b domain.Blueprint
	var profile []byte
	err := row.Scan(&b.ID, &b.OrgID, &b.SubjectID, &profile, &b.TotalExtractions, &b.ConfidenceScore, &b.DataCompleteness, &b.Version, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlueprintNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(profile, &b.Profile); err != nil {
		return nil, err
	}
	return &b, nil
}
