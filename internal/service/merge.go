package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/merge"
	"github.com/parsecv/blueprint/internal/metrics"
	"github.com/parsecv/blueprint/internal/pagination"
	"github.com/parsecv/blueprint/internal/telemetry"
)

// maxMergeAttempts caps retry-from-read under version conflicts.
const maxMergeAttempts = 3

// ExtractionArchiver persists the raw extraction payload after a
// successful merge, keyed by subject and source ID.
type ExtractionArchiver interface {
	ArchiveExtraction(ctx context.Context, orgID, subjectID, sourceID string, payload []byte) error
}

// MergeService orchestrates a full merge: fetch-or-create the subject's
// blueprint, run the field mergers, rescore, and persist under
// optimistic concurrency with retry-from-read.
type MergeService struct {
	store    BlueprintStore
	archiver ExtractionArchiver
	metrics  *metrics.Metrics
	uuidGen  UUIDGenerator
}

// NewMergeService creates a new MergeService instance. archiver may be
// nil, in which case raw extractions are not archived.
func NewMergeService(store BlueprintStore, archiver ExtractionArchiver, m *metrics.Metrics) *MergeService {
	return &MergeService{
		store:    store,
		archiver: archiver,
		metrics:  m,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewMergeServiceWithUUIDGen creates a MergeService with a custom UUID generator (for testing)
func NewMergeServiceWithUUIDGen(store BlueprintStore, archiver ExtractionArchiver, m *metrics.Metrics, uuidGen UUIDGenerator) *MergeService {
	return &MergeService{
		store:    store,
		archiver: archiver,
		metrics:  m,
		uuidGen:  uuidGen,
	}
}

// MergeInput represents one extraction submitted for merging.
type MergeInput struct {
	OrgID      string
	SubjectID  string
	Extraction domain.Extraction
}

// MergeSummary aggregates what a merge did, for the caller's benefit.
type MergeSummary struct {
	NewSkills     int     `json:"new_skills"`
	NewExperience int     `json:"new_experience"`
	NewEducation  int     `json:"new_education"`
	UpdatedFields int     `json:"updated_fields"`
	Confidence    float64 `json:"confidence"`
}

// MergeResult is the outcome of a successful merge.
type MergeResult struct {
	Blueprint *domain.Blueprint
	Changes   []*domain.Change
	Summary   MergeSummary
}

// Merge merges one extraction into the subject's blueprint. On a version
// conflict the whole operation is retried from a fresh read, because
// merges against stale state are not commutative. After the retry budget
// is exhausted the caller gets domain.ErrMergeContention and the
// blueprint is left at whatever version the competing merges produced.
func (s *MergeService) Merge(ctx context.Context, input MergeInput) (*MergeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "MergeService.Merge", telemetry.SpanAttributes{
		OrgID:     input.OrgID,
		SubjectID: input.SubjectID,
		Operation: "merge",
	})
	defer span.End()

	if input.OrgID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "organization ID is required")
	}
	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubjectID
	}
	if input.Extraction.IsEmpty() {
		return nil, domain.ErrEmptyExtraction
	}

	sourceID, err := SourceID(input.Extraction)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to fingerprint extraction", err)
	}

	start := time.Now()

	for attempt := 1; attempt <= maxMergeAttempts; attempt++ {
		result, err := s.attempt(ctx, input, sourceID)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.metrics.IncrementConflict()
			continue
		}
		if err != nil {
			s.metrics.IncrementOutcome("error")
			span.SetError(err)
			return nil, err
		}

		outcome := "applied"
		if len(result.Changes) == 0 {
			outcome = "noop"
		}
		s.metrics.IncrementOutcome(outcome)
		s.metrics.ObserveMergeLatency(time.Since(start))

		s.archive(ctx, input, sourceID)

		return result, nil
	}

	s.metrics.IncrementRetriesExhausted()
	s.metrics.IncrementOutcome("error")
	return nil, domain.ErrMergeContention
}

// attempt runs one optimistic merge round against a fresh read.
func (s *MergeService) attempt(ctx context.Context, input MergeInput, sourceID string) (*MergeResult, error) {
	b, err := s.store.GetOrCreate(ctx, input.OrgID, input.SubjectID)
	if err != nil {
		return nil, err
	}

	profile := b.Profile.Clone()
	var changes []domain.Change

	personal := merge.Personal(profile.Personal, input.Extraction.Name, input.Extraction.Summary)
	profile.Personal = personal.Merged
	changes = append(changes, personal.Changes...)

	contact := merge.Contact(profile.Contact, input.Extraction.Contact)
	profile.Contact = contact.Merged
	changes = append(changes, contact.Changes...)

	skills := merge.Skills(profile.Skills, input.Extraction.Skills, sourceID)
	profile.Skills = skills.Merged
	changes = append(changes, skills.Changes...)

	experience := merge.Experience(profile.Experience, input.Extraction.Experience)
	profile.Experience = experience.Merged
	changes = append(changes, experience.Changes...)

	education := merge.Education(profile.Education, input.Extraction.Education)
	profile.Education = education.Merged
	changes = append(changes, education.Changes...)

	scores := merge.Score(profile)
	now := time.Now().UTC()

	updated := *b
	updated.Profile = profile
	updated.TotalExtractions = b.TotalExtractions + 1
	updated.ConfidenceScore = scores.Confidence
	updated.DataCompleteness = scores.Completeness
	updated.Version = b.Version + 1
	updated.UpdatedAt = now

	if err := domain.ValidateBlueprint(&updated); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "merge produced an invalid blueprint", err)
	}

	if err := s.store.UpdateVersioned(ctx, &updated, b.Version); err != nil {
		return nil, err
	}

	records := make([]*domain.Change, 0, len(changes))
	for _, c := range changes {
		c.ID = s.uuidGen.NewString()
		c.BlueprintID = updated.ID
		c.Version = updated.Version
		c.CreatedAt = now
		record := c
		records = append(records, &record)
	}

	if len(records) > 0 {
		if err := s.store.AppendChanges(ctx, records); err != nil {
			return nil, err
		}
	}

	newFacts := skills.NewCount + experience.NewCount + education.NewCount

	return &MergeResult{
		Blueprint: &updated,
		Changes:   records,
		Summary: MergeSummary{
			NewSkills:     skills.NewCount,
			NewExperience: experience.NewCount,
			NewEducation:  education.NewCount,
			UpdatedFields: len(changes) - newFacts,
			Confidence:    scores.Confidence,
		},
	}, nil
}

// archive stores the raw extraction payload after the merge committed.
// Failures are logged, not surfaced: the merge already succeeded and the
// archive is a convenience copy.
func (s *MergeService) archive(ctx context.Context, input MergeInput, sourceID string) {
	if s.archiver == nil {
		return
	}

	payload, err := json.Marshal(input.Extraction)
	if err != nil {
		log.Printf("merge: failed to encode extraction %s for archival: %v", sourceID, err)
		return
	}

	if err := s.archiver.ArchiveExtraction(ctx, input.OrgID, input.SubjectID, sourceID, payload); err != nil {
		log.Printf("merge: failed to archive extraction %s: %v", sourceID, err)
	}
}

// GetBlueprint retrieves the merged blueprint for a subject.
func (s *MergeService) GetBlueprint(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error) {
	ctx, span := telemetry.StartSpan(ctx, "MergeService.GetBlueprint", telemetry.SpanAttributes{
		OrgID:     orgID,
		SubjectID: subjectID,
		Operation: "get",
	})
	defer span.End()

	if subjectID == "" {
		return nil, domain.ErrMissingSubjectID
	}

	return s.store.GetBySubject(ctx, orgID, subjectID)
}

type ListChangesInput struct {
	OrgID     string
	SubjectID string
	Cursor    string
	Limit     int
}

type ListChangesOutput struct {
	Items   []*domain.Change
	Cursor  string
	HasMore bool
}

// ListChanges pages through a subject's change log, newest first.
func (s *MergeService) ListChanges(ctx context.Context, input ListChangesInput) (*ListChangesOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "MergeService.ListChanges", telemetry.SpanAttributes{
		OrgID:     input.OrgID,
		SubjectID: input.SubjectID,
		Operation: "list",
	})
	defer span.End()

	if input.SubjectID == "" {
		return nil, domain.ErrMissingSubjectID
	}

	b, err := s.store.GetBySubject(ctx, input.OrgID, input.SubjectID)
	if err != nil {
		return nil, err
	}

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.store.ListChanges(ctx, b.ID, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListChangesOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}
