package handlers

import "net/http"

// BuildInfo is the static metadata surfaced by the health and meta
// endpoints.
type BuildInfo struct {
	Service     string
	Environment string
	Version     string
	BuildSHA    string
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// MetaResponse is the /v1/meta body.
type MetaResponse struct {
	Service     string `json:"service"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	BuildSHA    string `json:"build_sha"`
}

// HealthHandler answers liveness probes. It performs no dependency checks:
// a process that can serve this route is alive.
func HealthHandler(info BuildInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: info.Service,
			Version: info.Version,
		})
	}
}

// MetaHandler serves static build metadata.
func MetaHandler(info BuildInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MetaResponse{
			Service:     info.Service,
			Environment: info.Environment,
			Version:     info.Version,
			BuildSHA:    info.BuildSHA,
		})
	}
}
