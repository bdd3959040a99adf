package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBuildInfo = BuildInfo{
	Service:     "flowbiz-n8n-bridge",
	Environment: "test",
	Version:     "1.2.3",
	BuildSHA:    "abc1234",
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	HealthHandler(testBuildInfo)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "flowbiz-n8n-bridge", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestMetaHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/meta", nil)
	rec := httptest.NewRecorder()

	MetaHandler(testBuildInfo)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MetaResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "flowbiz-n8n-bridge", resp.Service)
	assert.Equal(t, "test", resp.Environment)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "abc1234", resp.BuildSHA)
}
