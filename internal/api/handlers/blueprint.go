package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parsecv/blueprint/internal/api"
	"github.com/parsecv/blueprint/internal/api/middleware"
	"github.com/parsecv/blueprint/internal/domain"
	"github.com/parsecv/blueprint/internal/service"
)

type BlueprintService interface {
	Merge(ctx context.Context, input service.MergeInput) (*service.MergeResult, error)
	GetBlueprint(ctx context.Context, orgID, subjectID string) (*domain.Blueprint, error)
	ListChanges(ctx context.Context, input service.ListChangesInput) (*service.ListChangesOutput, error)
}

type BlueprintHandler struct {
	svc BlueprintService
}

func NewBlueprintHandler(svc BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{svc: svc}
}

type BlueprintResponse struct {
	ID               string             `json:"id"`
	SubjectID        string             `json:"subject_id"`
	Profile          domain.ProfileData `json:"profile"`
	TotalExtractions int64              `json:"total_extractions"`
	ConfidenceScore  float64            `json:"confidence_score"`
	DataCompleteness float64            `json:"data_completeness"`
	Version          int64              `json:"version"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

type ChangeResponse struct {
	ID          string  `json:"id"`
	Version     int64   `json:"version"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
	CreatedAt   string  `json:"created_at"`
}

type MergeResponse struct {
	Blueprint *BlueprintResponse   `json:"blueprint"`
	Summary   service.MergeSummary `json:"summary"`
	Changes   []*ChangeResponse    `json:"changes"`
}

type ListChangesResponse struct {
	Items   []*ChangeResponse `json:"items"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

func blueprintToResponse(b *domain.Blueprint) *BlueprintResponse {
	return &BlueprintResponse{
		ID:               b.ID,
		SubjectID:        b.SubjectID,
		Profile:          b.Profile,
		TotalExtractions: b.TotalExtractions,
		ConfidenceScore:  b.ConfidenceScore,
		DataCompleteness: b.DataCompleteness,
		Version:          b.Version,
		CreatedAt:        b.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func changeToResponse(c *domain.Change) *ChangeResponse {
	return &ChangeResponse{
		ID:          c.ID,
		Version:     c.Version,
		Type:        string(c.Type),
		Description: c.Description,
		Impact:      c.Impact,
		CreatedAt:   c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func changesToResponse(changes []*domain.Change) []*ChangeResponse {
	out := make([]*ChangeResponse, len(changes))
	for i, c := range changes {
		out[i] = changeToResponse(c)
	}
	return out
}

// MergeExtraction accepts one structured extraction and merges it into
// the subject's blueprint.
func (h *BlueprintHandler) MergeExtraction(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	var extraction domain.Extraction
	if err := json.NewDecoder(r.Body).Decode(&extraction); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Merge(r.Context(), service.MergeInput{
		OrgID:      orgID,
		SubjectID:  subjectID,
		Extraction: extraction,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, MergeResponse{
		Blueprint: blueprintToResponse(result.Blueprint),
		Summary:   result.Summary,
		Changes:   changesToResponse(result.Changes),
	})
}

func (h *BlueprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	b, err := h.svc.GetBlueprint(r.Context(), orgID, subjectID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, blueprintToResponse(b))
}

func (h *BlueprintHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	orgID := middleware.GetOrgID(r.Context())
	if orgID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		api.Error(w, http.StatusBadRequest, "subject id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.svc.ListChanges(r.Context(), service.ListChangesInput{
		OrgID:     orgID,
		SubjectID: subjectID,
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ListChangesResponse{
		Items:   changesToResponse(out.Items),
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	})
}
