package jobs

import (
	"fmt"
	"net/url"

	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
)

// UnknownWorkflowError indicates workflow_key is absent from the registry
// or present but disabled.
type UnknownWorkflowError struct {
	Key string
}

func (e *UnknownWorkflowError) Error() string {
	return fmt.Sprintf("unknown or disabled workflow_key %q", e.Key)
}

// InvalidTimeoutError indicates timeout_seconds is non-positive or exceeds
// the configured maximum.
type InvalidTimeoutError struct {
	Seconds int
	Max     int
}

func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("timeout_seconds must be in (0, %d], got %d", e.Max, e.Seconds)
}

// InvalidPriorityError indicates priority is outside [MinPriority, MaxPriority].
// Out-of-range priorities are rejected, never clamped: silent clamping hides
// caller bugs.
type InvalidPriorityError struct {
	Priority int
}

func (e *InvalidPriorityError) Error() string {
	return fmt.Sprintf("priority must be in [%d, %d], got %d", MinPriority, MaxPriority, e.Priority)
}

// InvalidCallbackURLError indicates callback_url is not an absolute http(s) URL.
type InvalidCallbackURLError struct {
	URL string
}

func (e *InvalidCallbackURLError) Error() string {
	return fmt.Sprintf("callback_url is not a valid http(s) URL: %q", e.URL)
}

// Validate applies the intake gate in contract order, failing on the first
// violation:
//
//  1. workflow_key resolves to an enabled registry entry
//  2. timeout_seconds in (0, maxTimeoutSeconds]
//  3. priority in [MinPriority, MaxPriority]
//  4. callback_url parses as an absolute http(s) URL
//
// Nil Priority or TimeoutSeconds are treated as their defaults, so Validate
// is safe to call with or without ApplyDefaults; an explicit zero is never
// confused with an omitted field.
func (r *Request) Validate(reg *registry.Registry, maxTimeoutSeconds int) error {
	entry, ok := reg.Lookup(r.WorkflowKey)
	if !ok || !entry.IsEnabled() {
		return &UnknownWorkflowError{Key: r.WorkflowKey}
	}

	timeout := DefaultTimeoutSeconds
	if r.TimeoutSeconds != nil {
		timeout = *r.TimeoutSeconds
	}
	if timeout <= 0 || timeout > maxTimeoutSeconds {
		return &InvalidTimeoutError{Seconds: timeout, Max: maxTimeoutSeconds}
	}

	priority := DefaultPriority
	if r.Priority != nil {
		priority = *r.Priority
	}
	if priority < MinPriority || priority > MaxPriority {
		return &InvalidPriorityError{Priority: priority}
	}

	u, err := url.Parse(r.CallbackURL)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &InvalidCallbackURLError{URL: r.CallbackURL}
	}

	return nil
}
