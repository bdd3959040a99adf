package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/natbkgift/flowbiz-infra-n8n/internal/server/middleware"
)

// HTTPErrorResponse is the JSON envelope for every error the API returns.
type HTTPErrorResponse struct {
	Error HTTPErrorBody `json:"error"`
}

// HTTPErrorBody carries the wire code, message, and optional context.
type HTTPErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// RespondWithError writes err as a JSON error envelope. Typed *Error values
// keep their status and code; anything else becomes a 500 INTERNAL_ERROR
// with the underlying message withheld from the caller.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		appErr = &Error{
			Code:    CodeInternal,
			Status:  http.StatusInternalServerError,
			Message: "internal error",
			Err:     err,
		}
	}

	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	WriteError(w, r, status, appErr.Code, appErr.Message, appErr.Details)
}

// WriteError writes an error envelope with explicit status and code.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code Code, message string, details map[string]any) {
	resp := HTTPErrorResponse{
		Error: HTTPErrorBody{
			Code:    string(code),
			Message: message,
			Details: details,
		},
	}
	if r != nil {
		resp.Error.RequestID = middleware.GetRequestID(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// NotFoundHandler is the router fallback for unknown paths.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusNotFound, CodeNotFound, "resource not found", nil)
}

// MethodNotAllowedHandler is the router fallback for known paths with
// unsupported methods.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil)
}
