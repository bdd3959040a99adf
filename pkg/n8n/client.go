// Package n8n is a minimal client for triggering workflows through n8n's
// webhook entrypoint.
//
// Import/export and workflow lifecycle management stay with the n8n CLI and
// REST API; this client only covers the trigger path the bridge needs.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/natbkgift/flowbiz-infra-n8n/pkg/jobs"
)

const (
	defaultTimeout = 10 * time.Second
	apiKeyHeader   = "X-N8N-API-KEY"
)

// Client posts job payloads to n8n webhook endpoints.
type Client struct {
	webhookBase string
	apiKey      string
	httpc       *http.Client
}

// NewClient builds a client for the given webhook base URL
// (e.g. http://127.0.0.1:5678/webhook). apiKey may be empty.
func NewClient(webhookBase, apiKey string) *Client {
	return &Client{
		webhookBase: strings.TrimRight(webhookBase, "/"),
		apiKey:      apiKey,
		httpc:       &http.Client{Timeout: defaultTimeout},
	}
}

// dispatchPayload is the body posted to the workflow webhook. It carries the
// accepted request plus the job id minted for it, so the workflow can echo
// the id back in its completion callback.
type dispatchPayload struct {
	JobID string `json:"job_id"`
	jobs.Request
}

// Dispatch triggers the workflow named by req.WorkflowKey.
//
// The webhook URL is {base}/{workflow_key}. A non-2xx response is an error;
// the caller decides whether that is fatal (the intake handler treats it as
// log-and-continue).
func (c *Client) Dispatch(ctx context.Context, jobID string, req *jobs.Request) error {
	if req == nil {
		return fmt.Errorf("job request is nil")
	}

	body, err := json.Marshal(dispatchPayload{JobID: jobID, Request: *req})
	if err != nil {
		return fmt.Errorf("marshal dispatch payload: %w", err)
	}

	url := c.webhookBase + "/" + req.WorkflowKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post to n8n webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("n8n webhook returned status %d for %s", resp.StatusCode, req.WorkflowKey)
	}
	return nil
}
