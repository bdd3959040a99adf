package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/natbkgift/flowbiz-infra-n8n/internal/errors"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/jobs"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/ratelimit"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
)

// dispatchTimeout bounds the fire-and-forget webhook call so an unreachable
// n8n cannot pin goroutines.
const dispatchTimeout = 15 * time.Second

// Dispatcher triggers the external workflow runtime for an accepted job.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID string, req *jobs.Request) error
}

// JobsHandler validates job-trigger requests and mints acknowledgments.
// It holds no per-job state: the registry is read-only and every request is
// handled within its own request/response cycle.
type JobsHandler struct {
	registry          *registry.Registry
	maxTimeoutSeconds int
	limiter           *ratelimit.PerClient
	dispatcher        Dispatcher
	logger            *zap.Logger

	// Injection points for deterministic tests.
	now      func() time.Time
	newJobID func() string
}

// NewJobsHandler wires the intake gate. dispatcher may be nil when no
// runtime is attached (tests, dry deployments); limiter may be nil to skip
// rate limiting.
func NewJobsHandler(reg *registry.Registry, maxTimeoutSeconds int, limiter *ratelimit.PerClient, dispatcher Dispatcher, logger *zap.Logger) *JobsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobsHandler{
		registry:          reg,
		maxTimeoutSeconds: maxTimeoutSeconds,
		limiter:           limiter,
		dispatcher:        dispatcher,
		logger:            logger,
		now:               time.Now,
		newJobID:          newJobID,
	}
}

// newJobID mints a time-ordered random token, collision-free within the
// process lifetime. No global sequence is needed: jobs are not persisted.
func newJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// Create handles POST /v1/jobs.
//
// Validation order is contractual: unknown workflow, then timeout, then
// priority, then callback URL; the first violation wins and no job id is
// minted. On success the request is acknowledged 202 and dispatched to n8n
// fire-and-forget.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		observability.RecordJobRejected(string(apperrors.CodeMalformedRequest))
		respondWithError(w, r, apperrors.NewMalformedRequest(err))
		return
	}

	req.ApplyDefaults()

	if h.limiter != nil && !h.limiter.Allow(req.ClientID) {
		observability.RecordJobRejected(string(apperrors.CodeRateLimited))
		respondWithError(w, r, apperrors.NewRateLimited(req.ClientID))
		return
	}

	if err := req.Validate(h.registry, h.maxTimeoutSeconds); err != nil {
		appErr := apperrors.FromValidation(err)
		observability.RecordJobRejected(string(appErr.Code))
		h.logger.Info("job rejected",
			zap.String("client_id", req.ClientID),
			zap.String("workflow_key", req.WorkflowKey),
			zap.String("code", string(appErr.Code)))
		respondWithError(w, r, appErr)
		return
	}

	jobID := h.newJobID()
	resp := jobs.NewResponse(jobID, h.now().UTC(), *req.TimeoutSeconds)

	h.logger.Info("job accepted",
		zap.String("job_id", jobID),
		zap.String("client_id", req.ClientID),
		zap.String("workflow_key", req.WorkflowKey),
		zap.String("status", string(resp.Status)))
	observability.RecordJobAccepted(req.WorkflowKey)

	if h.dispatcher != nil {
		go h.dispatch(jobID, req)
	}

	writeJSON(w, http.StatusAccepted, resp)
}

// dispatch fires the webhook trigger outside the request cycle. Failures
// are logged and never surfaced to the caller; the acknowledgment already
// went out.
func (h *JobsHandler) dispatch(jobID string, req jobs.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := h.dispatcher.Dispatch(ctx, jobID, &req); err != nil {
		h.logger.Error("n8n dispatch failed",
			zap.String("job_id", jobID),
			zap.String("client_id", req.ClientID),
			zap.String("workflow_key", req.WorkflowKey),
			zap.Error(err))
	}
}
