// Package errors defines the bridge's error taxonomy and the JSON envelope
// returned to HTTP callers.
package errors

import (
	"fmt"
	"net/http"

	"github.com/natbkgift/flowbiz-infra-n8n/pkg/jobs"
)

// Code is a machine-readable error code surfaced to callers.
type Code string

const (
	CodeRegistryLoadFailed Code = "REGISTRY_LOAD_FAILED"
	CodeUnknownWorkflow    Code = "UNKNOWN_WORKFLOW"
	CodeInvalidTimeout     Code = "INVALID_TIMEOUT"
	CodeInvalidPriority    Code = "INVALID_PRIORITY"
	CodeInvalidCallbackURL Code = "INVALID_CALLBACK_URL"
	CodeMalformedRequest   Code = "MALFORMED_REQUEST"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeSignatureMissing   Code = "SIGNATURE_MISSING"
	CodeSignatureInvalid   Code = "SIGNATURE_INVALID"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotAllowed   Code = "METHOD_NOT_ALLOWED"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error is a typed application error carrying the HTTP status and wire code
// alongside the human-readable message.
type Error struct {
	Code    Code
	Message string
	Status  int
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with an explicit status.
func New(code Code, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// NewMalformedRequest flags an unparseable job request body.
func NewMalformedRequest(err error) *Error {
	return &Error{
		Code:    CodeMalformedRequest,
		Status:  http.StatusBadRequest,
		Message: "request body is not valid JSON",
		Err:     err,
	}
}

// NewRateLimited flags a client that exhausted its per-minute quota.
func NewRateLimited(clientID string) *Error {
	return &Error{
		Code:    CodeRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: "client request quota exceeded",
		Details: map[string]any{"client_id": clientID},
	}
}

// NewSignatureMissing flags a callback without a signature header while a
// signing secret is configured.
func NewSignatureMissing() *Error {
	return &Error{
		Code:    CodeSignatureMissing,
		Status:  http.StatusUnauthorized,
		Message: "missing callback signature",
	}
}

// NewSignatureInvalid flags a callback whose signature did not verify.
func NewSignatureInvalid() *Error {
	return &Error{
		Code:    CodeSignatureInvalid,
		Status:  http.StatusUnauthorized,
		Message: "invalid callback signature",
	}
}

// WrapRegistryLoad wraps a fatal registry load failure.
func WrapRegistryLoad(err error) *Error {
	return &Error{
		Code:    CodeRegistryLoadFailed,
		Status:  http.StatusInternalServerError,
		Message: "workflow registry could not be loaded",
		Err:     err,
	}
}

// FromValidation maps the pkg/jobs validation errors onto the wire taxonomy.
// Unrecognized errors fall through to INTERNAL_ERROR.
func FromValidation(err error) *Error {
	switch v := err.(type) {
	case *jobs.UnknownWorkflowError:
		return &Error{
			Code:    CodeUnknownWorkflow,
			Status:  http.StatusBadRequest,
			Message: v.Error(),
			Details: map[string]any{"workflow_key": v.Key},
		}
	case *jobs.InvalidTimeoutError:
		return &Error{
			Code:    CodeInvalidTimeout,
			Status:  http.StatusBadRequest,
			Message: v.Error(),
			Details: map[string]any{"timeout_seconds": v.Seconds, "max": v.Max},
		}
	case *jobs.InvalidPriorityError:
		return &Error{
			Code:    CodeInvalidPriority,
			Status:  http.StatusBadRequest,
			Message: v.Error(),
			Details: map[string]any{"priority": v.Priority},
		}
	case *jobs.InvalidCallbackURLError:
		return &Error{
			Code:    CodeInvalidCallbackURL,
			Status:  http.StatusBadRequest,
			Message: v.Error(),
		}
	default:
		return &Error{
			Code:    CodeInternal,
			Status:  http.StatusInternalServerError,
			Message: "internal error",
			Err:     err,
		}
	}
}
