package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natbkgift/flowbiz-infra-n8n/pkg/jobs"
)

func TestFromValidation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   Code
		wantStatus int
	}{
		{
			name:       "unknown workflow",
			err:        &jobs.UnknownWorkflowError{Key: "ghost_flow"},
			wantCode:   CodeUnknownWorkflow,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid timeout",
			err:        &jobs.InvalidTimeoutError{Seconds: 7200, Max: 3600},
			wantCode:   CodeInvalidTimeout,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid priority",
			err:        &jobs.InvalidPriorityError{Priority: 42},
			wantCode:   CodeInvalidPriority,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid callback url",
			err:        &jobs.InvalidCallbackURLError{URL: "nope"},
			wantCode:   CodeInvalidCallbackURL,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unexpected error becomes internal",
			err:        assert.AnError,
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromValidation(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.Status)
			assert.NotEmpty(t, appErr.Message)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := WrapRegistryLoad(assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), "REGISTRY_LOAD_FAILED")
}

func TestSignatureErrors(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, NewSignatureMissing().Status)
	assert.Equal(t, http.StatusUnauthorized, NewSignatureInvalid().Status)
}

func TestNewRateLimited(t *testing.T) {
	err := NewRateLimited("c1")
	assert.Equal(t, CodeRateLimited, err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, "c1", err.Details["client_id"])
}
