package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/natbkgift/flowbiz-infra-n8n/internal/errors"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/jobs"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/ratelimit"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	jobIDs []string
	reqs   []jobs.Request
	done   chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{done: make(chan struct{}, 16)}
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, jobID string, req *jobs.Request) error {
	d.mu.Lock()
	d.jobIDs = append(d.jobIDs, jobID)
	d.reqs = append(d.reqs, *req)
	d.mu.Unlock()
	d.done <- struct{}{}
	return nil
}

func (d *fakeDispatcher) wait(t *testing.T) {
	t.Helper()
	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher was not invoked")
	}
}

func intakeRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.LoadFromBytes([]byte(`{
		"workflows": [{"key": "demo_flow", "name": "Demo Flow"}]
	}`), "registry.json")
	require.NoError(t, err)
	return reg
}

func postJob(t *testing.T, h *JobsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) apperrors.HTTPErrorResponse {
	t.Helper()
	var resp apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateAcceptsKnownWorkflow(t *testing.T) {
	dispatcher := newFakeDispatcher()
	h := NewJobsHandler(intakeRegistry(t), 3600, nil, dispatcher, nil)

	acceptedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return acceptedAt }
	h.newJobID = func() string { return "job-fixed" }

	rec := postJob(t, h, `{
		"workflow_key": "demo_flow",
		"client_id": "c1",
		"inputs": {},
		"callback_url": "https://x/cb"
	}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp jobs.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "job-fixed", resp.JobID)
	assert.Equal(t, jobs.StatusPending, resp.Status)
	assert.Equal(t, acceptedAt, resp.AcceptedAt)
	assert.Equal(t, acceptedAt.Add(300*time.Second), resp.EstimatedCompletion,
		"estimated_completion is accepted_at + default timeout exactly")

	dispatcher.wait(t)
	assert.Equal(t, []string{"job-fixed"}, dispatcher.jobIDs)
	assert.Equal(t, "demo_flow", dispatcher.reqs[0].WorkflowKey)
}

func TestCreateEstimatedCompletionUsesRequestTimeout(t *testing.T) {
	h := NewJobsHandler(intakeRegistry(t), 3600, nil, nil, nil)
	acceptedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return acceptedAt }

	rec := postJob(t, h, `{
		"workflow_key": "demo_flow",
		"client_id": "c1",
		"inputs": {},
		"callback_url": "https://x/cb",
		"timeout_seconds": 1200
	}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp jobs.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, acceptedAt.Add(1200*time.Second), resp.EstimatedCompletion)
}

func TestCreateRejectsUnknownWorkflow(t *testing.T) {
	dispatcher := newFakeDispatcher()
	h := NewJobsHandler(intakeRegistry(t), 3600, nil, dispatcher, nil)

	rec := postJob(t, h, `{
		"workflow_key": "ghost_flow",
		"client_id": "c1",
		"inputs": {},
		"callback_url": "https://x/cb"
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "UNKNOWN_WORKFLOW", resp.Error.Code)

	// No job id is minted and nothing is dispatched.
	assert.Empty(t, dispatcher.jobIDs)
}

func TestCreateValidationRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "timeout above max",
			body:     `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb","timeout_seconds":7200}`,
			wantCode: "INVALID_TIMEOUT",
		},
		{
			name:     "priority out of range",
			body:     `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb","priority":11}`,
			wantCode: "INVALID_PRIORITY",
		},
		{
			// An explicit zero is a range violation, not an omitted field,
			// and must never be swallowed by defaulting.
			name:     "explicit zero priority",
			body:     `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb","priority":0}`,
			wantCode: "INVALID_PRIORITY",
		},
		{
			name:     "explicit zero timeout",
			body:     `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb","timeout_seconds":0}`,
			wantCode: "INVALID_TIMEOUT",
		},
		{
			name:     "malformed callback url",
			body:     `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"::not a url"}`,
			wantCode: "INVALID_CALLBACK_URL",
		},
		{
			name:     "body not JSON",
			body:     `{"workflow_key": `,
			wantCode: "MALFORMED_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJobsHandler(intakeRegistry(t), 3600, nil, nil, nil)
			rec := postJob(t, h, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeErrorResponse(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCreateRateLimited(t *testing.T) {
	limiter := ratelimit.NewPerClient(2)
	h := NewJobsHandler(intakeRegistry(t), 3600, limiter, nil, nil)

	body := `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb"}`

	assert.Equal(t, http.StatusAccepted, postJob(t, h, body).Code)
	assert.Equal(t, http.StatusAccepted, postJob(t, h, body).Code)

	rec := postJob(t, h, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "RATE_LIMITED", resp.Error.Code)

	// Other clients are unaffected.
	other := `{"workflow_key":"demo_flow","client_id":"c2","inputs":{},"callback_url":"https://x/cb"}`
	assert.Equal(t, http.StatusAccepted, postJob(t, h, other).Code)
}

func TestCreateMintsUniqueJobIDs(t *testing.T) {
	h := NewJobsHandler(intakeRegistry(t), 3600, nil, nil, nil)
	body := `{"workflow_key":"demo_flow","client_id":"c1","inputs":{},"callback_url":"https://x/cb"}`

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rec := postJob(t, h, body)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var resp jobs.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, seen[resp.JobID], "job id %s minted twice", resp.JobID)
		seen[resp.JobID] = true
	}
}
