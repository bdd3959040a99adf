// Package jobs defines the job intake contract: request/response shapes and
// the validation gate applied before a job id is minted.
package jobs

import "time"

// Status is the lifecycle state of a job.
//
// Only StatusPending is ever produced by this service; the remaining values
// are part of the wire contract with n8n callbacks.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

const (
	// DefaultPriority is applied when the caller omits priority.
	DefaultPriority = 5
	// DefaultTimeoutSeconds is applied when the caller omits timeout_seconds.
	DefaultTimeoutSeconds = 300

	// MinPriority and MaxPriority bound the accepted priority range.
	MinPriority = 1
	MaxPriority = 10
)

// Request is the inbound payload for creating a job.
//
// Priority and TimeoutSeconds are pointers so an omitted field stays
// distinguishable from an explicit zero: omitted fields pick up defaults,
// explicit zeros reach Validate and are rejected there.
type Request struct {
	WorkflowKey    string         `json:"workflow_key"`
	ClientID       string         `json:"client_id"`
	Inputs         map[string]any `json:"inputs"`
	CallbackURL    string         `json:"callback_url"`
	Priority       *int           `json:"priority,omitempty"`
	TimeoutSeconds *int           `json:"timeout_seconds,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ApplyDefaults fills optional fields the caller omitted. Explicit values,
// zero included, are preserved for Validate to judge.
func (r *Request) ApplyDefaults() {
	if r.Priority == nil {
		r.Priority = intRef(DefaultPriority)
	}
	if r.TimeoutSeconds == nil {
		r.TimeoutSeconds = intRef(DefaultTimeoutSeconds)
	}
}

func intRef(v int) *int { return &v }

// Response is the synchronous acknowledgment for an accepted job.
type Response struct {
	JobID               string    `json:"job_id"`
	Status              Status    `json:"status"`
	Message             string    `json:"message,omitempty"`
	AcceptedAt          time.Time `json:"accepted_at"`
	EstimatedCompletion time.Time `json:"estimated_completion"`
}

// NewResponse builds the pending acknowledgment for an accepted request.
// estimated_completion is advisory only: accepted_at + timeout_seconds.
func NewResponse(jobID string, acceptedAt time.Time, timeoutSeconds int) Response {
	return Response{
		JobID:               jobID,
		Status:              StatusPending,
		Message:             "accepted",
		AcceptedAt:          acceptedAt,
		EstimatedCompletion: acceptedAt.Add(time.Duration(timeoutSeconds) * time.Second),
	}
}
