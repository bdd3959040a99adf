package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func instrumentedRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func get(router chi.Router, path string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
}

func TestInstrumentHandlerLabelsByRoutePattern(t *testing.T) {
	router := instrumentedRouter()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/widgets/{id}", "200"))
	get(router, "/widgets/1")
	get(router, "/widgets/2")
	get(router, "/widgets/3")
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/widgets/{id}", "200"))

	assert.Equal(t, 3.0, after-before, "distinct ids share one route-pattern label")
}

func TestInstrumentHandlerUnmatchedPathsShareOneLabel(t *testing.T) {
	router := instrumentedRouter()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	get(router, "/no-such-route")
	get(router, "/another/no-such-route")
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))

	assert.Equal(t, 2.0, after-before)
}
