// Package callback defines the payload n8n posts back when a workflow run
// completes.
package callback

import "time"

// Status is the completion state reported by n8n.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// AuditEntry is one step-level record in a workflow execution trace.
// Entries arrive in chronological order and are purely descriptive; they are
// not independently validated.
type AuditEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Action     string         `json:"action"`
	NodeName   string         `json:"node_name"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMS int64          `json:"duration_ms,omitempty"`
}

// Payload is the callback body posted by n8n.
//
// When Status is StatusFailed, ErrorCode is expected but not enforced at
// this phase.
type Payload struct {
	JobID        string         `json:"job_id"`
	Status       Status         `json:"status"`
	Outputs      map[string]any `json:"outputs,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Audit        []AuditEntry   `json:"audit,omitempty"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	ExecutionID  string         `json:"execution_id,omitempty"`
}
