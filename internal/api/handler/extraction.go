package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/api/models"
	"github.com/galib9690/camels-attrs/internal/api/response"
	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/results"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// ExtractionService runs a full attribute extraction for one gauge.
type ExtractionService interface {
	Extract(ctx context.Context, gaugeID string, climate, hydro attrs.Period) (*attrs.Result, error)
}

// ExtractionHandler handles extraction endpoints.
type ExtractionHandler struct {
	service ExtractionService
	repo    results.Repository
	logger  zerolog.Logger
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(service ExtractionService, repo results.Repository, logger zerolog.Logger) *ExtractionHandler {
	return &ExtractionHandler{
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

// CreateExtraction handles POST /v1/extractions - run an extraction and
// persist the result. Extraction is synchronous: a run fans out to the
// upstream data services and typically completes within a minute.
func (h *ExtractionHandler) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "request body must be valid JSON", nil)
		return
	}

	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid extraction request", fieldErrs)
		return
	}

	climate, err := req.ClimatePeriod()
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	hydro, err := req.HydroPeriod()
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	result, err := h.service.Extract(r.Context(), req.GaugeID, climate, hydro)
	if err != nil {
		var de *watershed.DelineationError
		if errors.As(err, &de) {
			response.UpstreamFailure(w, r, "watershed delineation failed: "+de.Error())
			return
		}
		h.logger.Error().Err(err).Str("gauge_id", req.GaugeID).Msg("extraction failed")
		response.InternalError(w, r, "extraction failed")
		return
	}

	stored := results.FromResult(result)
	if err := h.repo.Save(r.Context(), stored); err != nil {
		h.logger.Error().Err(err).Str("gauge_id", req.GaugeID).Msg("persist result failed")
		response.InternalError(w, r, "could not persist extraction result")
		return
	}

	response.JSON(w, r, http.StatusCreated, toExtractionResponse(stored))
}

// GetLatestExtraction handles GET /v1/extractions/{gaugeID} - most recent
// stored result for a gauge.
func (h *ExtractionHandler) GetLatestExtraction(w http.ResponseWriter, r *http.Request) {
	gaugeID := chi.URLParam(r, "gaugeID")

	stored, err := h.repo.LatestByGauge(r.Context(), gaugeID)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			response.NotFound(w, r, "no extraction stored for gauge "+gaugeID)
			return
		}
		h.logger.Error().Err(err).Str("gauge_id", gaugeID).Msg("lookup failed")
		response.InternalError(w, r, "could not load extraction result")
		return
	}

	response.JSON(w, r, http.StatusOK, toExtractionResponse(stored))
}

// ListExtractions handles GET /v1/extractions/{gaugeID}/history - a gauge's
// stored runs, newest first. The limit query parameter caps the page size.
func (h *ExtractionHandler) ListExtractions(w http.ResponseWriter, r *http.Request) {
	gaugeID := chi.URLParam(r, "gaugeID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "limit must be a positive integer", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer", Code: "invalid"},
			})
			return
		}
		limit = parsed
	}

	runs, err := h.repo.ListByGauge(r.Context(), gaugeID, results.ListOptions{Limit: limit})
	if err != nil {
		h.logger.Error().Err(err).Str("gauge_id", gaugeID).Msg("history lookup failed")
		response.InternalError(w, r, "could not load extraction history")
		return
	}

	history := models.ExtractionHistoryResponse{
		GaugeID: gaugeID,
		Runs:    make([]models.ExtractionResponse, 0, len(runs)),
	}
	for _, run := range runs {
		history.Runs = append(history.Runs, toExtractionResponse(run))
	}
	response.JSON(w, r, http.StatusOK, history)
}

func toExtractionResponse(stored *results.StoredResult) models.ExtractionResponse {
	resp := models.ExtractionResponse{
		ID:         stored.ID,
		RunID:      stored.RunID,
		GaugeID:    stored.GaugeID,
		GaugeName:  stored.GaugeName,
		Lat:        stored.Lat,
		Lon:        stored.Lon,
		HUC02:      stored.HUC02,
		Status:     stored.Status,
		Attributes: stored.Attributes,
		CreatedAt:  models.Timestamp(stored.CreatedAt),
	}
	for _, s := range stored.Statuses {
		resp.Statuses = append(resp.Statuses, models.DomainStatus{
			Domain: string(s.Domain),
			State:  string(s.State),
			Reason: s.Reason,
		})
	}
	return resp
}
