package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jcodina/facturaflow/internal/api/middleware"
	"github.com/jcodina/facturaflow/internal/auth"
	"github.com/jcodina/facturaflow/internal/domain"
	"github.com/jcodina/facturaflow/internal/jobs"
	"github.com/jcodina/facturaflow/internal/ledger"
)

// HistoryReader is the read path of the ledger consumed by the history
// endpoint.
type HistoryReader interface {
	ReadAll(ctx context.Context) (*ledger.Table, error)
}

// IngestHandler enqueues ingestion runs.
type IngestHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(publisher jobs.Publisher, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{publisher: publisher, log: log}
}

// EnqueueRun handles POST /api/ingest
func (h *IngestHandler) EnqueueRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quarter string `json:"quarter"`
		Year    int    `json:"year"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := domain.ParseQuarter(req.Quarter); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Year < 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Year must be a calendar year or 0 for all time")
		return
	}

	job := &jobs.IngestRunJob{
		Quarter: req.Quarter,
		Year:    req.Year,
	}

	if err := h.publisher.PublishIngestRun(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue ingestion run")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue ingestion run")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("quarter", req.Quarter).Int("year", req.Year).Msg("Ingestion run enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// HistoryHandler serves the processed-invoice history.
type HistoryHandler struct {
	reader HistoryReader
	log    zerolog.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(reader HistoryReader, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{reader: reader, log: log}
}

// GetHistory handles GET /api/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	table, err := h.reader.ReadAll(r.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrEmpty) {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"empty":  true,
				"header": []string{},
				"rows":   [][]string{},
			})
			return
		}
		h.log.Error().Err(err).Msg("Failed to read ledger")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read history")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"empty":  false,
		"header": table.Header,
		"rows":   table.Rows,
		"count":  len(table.Rows),
	})
}

// AuthHandler exposes the authorization state machine over HTTP. The
// one-time code arrives explicitly in the request body; no state is read
// from query parameters.
type AuthHandler struct {
	manager *auth.Manager
	log     zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(manager *auth.Manager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{manager: manager, log: log}
}

// GetAuthURL handles GET /api/auth/url
func (h *AuthHandler) GetAuthURL(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"auth_url": h.manager.AuthURL(),
		"state":    string(h.manager.State()),
	})
}

// SubmitCode handles POST /api/auth/code
func (h *AuthHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	if err := h.manager.Exchange(r.Context(), req.Code); err != nil {
		h.log.Error().Err(err).Msg("Authorization code exchange failed")
		middleware.WriteError(w, http.StatusBadGateway, "Authorization exchange failed")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"state": string(h.manager.State()),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
