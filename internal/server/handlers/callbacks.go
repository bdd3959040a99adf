package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/natbkgift/flowbiz-infra-n8n/internal/errors"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/callback"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/signature"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw callback body.
const SignatureHeader = "X-Callback-Signature"

// AuditSink receives accepted callback payloads for retention. The callback
// handler treats persistence failures as log-and-continue; swapping the sink
// is how the status-store phase lands without reshaping this handler.
type AuditSink interface {
	Insert(ctx context.Context, cb *callback.Payload) error
}

// ackBody is the fixed acknowledgment returned for every processed callback.
type ackBody struct {
	Status string `json:"status"`
}

// CallbacksHandler accepts completion notices from n8n.
type CallbacksHandler struct {
	policy signature.Policy
	audit  AuditSink
	logger *zap.Logger
}

// NewCallbacksHandler wires the callback path. audit may be nil to disable
// persistence.
func NewCallbacksHandler(policy signature.Policy, audit AuditSink, logger *zap.Logger) *CallbacksHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbacksHandler{policy: policy, audit: audit, logger: logger}
}

// Receive handles POST /v1/callbacks/n8n.
//
// Signature failures are the only errors a caller learns about; payload
// problems are logged and masked behind a 200 acknowledgment. Callback
// results are not yet forwarded anywhere, so there is no downstream to
// protect.
func (h *CallbacksHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read callback body", zap.Error(err))
		writeJSON(w, http.StatusOK, ackBody{Status: "ok"})
		return
	}

	if h.policy.Enabled() {
		provided := r.Header.Get(SignatureHeader)
		if provided == "" {
			h.logger.Warn("callback signature missing")
			observability.RecordSignatureFailure()
			respondWithError(w, r, apperrors.NewSignatureMissing())
			return
		}
		if !h.policy.Verify(raw, provided) {
			h.logger.Warn("callback signature invalid")
			observability.RecordSignatureFailure()
			respondWithError(w, r, apperrors.NewSignatureInvalid())
			return
		}
	} else {
		h.logger.Warn("callback accepted without signature validation (no secret configured)")
	}

	var cb callback.Payload
	if err := json.Unmarshal(raw, &cb); err != nil {
		// Log-and-ack: malformed payloads are acknowledged in this phase.
		h.logger.Warn("malformed callback payload acknowledged",
			zap.Error(err),
			zap.Int("body_bytes", len(raw)))
		observability.RecordCallback("malformed")
		writeJSON(w, http.StatusOK, ackBody{Status: "ok"})
		return
	}

	h.logger.Info("callback received",
		zap.String("job_id", cb.JobID),
		zap.String("status", string(cb.Status)),
		zap.String("execution_id", cb.ExecutionID),
		zap.String("error_code", cb.ErrorCode),
		zap.String("error_message", cb.ErrorMessage),
		zap.Any("outputs", cb.Outputs),
		zap.Any("audit", cb.Audit),
		zap.Timep("started_at", cb.StartedAt),
		zap.Timep("completed_at", cb.CompletedAt))

	if h.audit != nil {
		if err := h.audit.Insert(r.Context(), &cb); err != nil {
			h.logger.Error("audit persist failed",
				zap.String("job_id", cb.JobID),
				zap.Error(err))
		}
	}

	observability.RecordCallback(string(cb.Status))
	writeJSON(w, http.StatusOK, ackBody{Status: "ok"})
}
