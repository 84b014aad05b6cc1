package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /p/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)

	labels := prometheus.Labels{"method": "GET", "route": "GET /p/{id}", "status": "418"}
	before := testutil.ToFloat64(httpRequestsTotal.With(labels))

	for _, id := range []string{"a", "b", "c"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/p/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(httpRequestsTotal.With(labels)))
}

func TestMiddlewareUnmatched(t *testing.T) {
	h := Middleware(http.NewServeMux())
	labels := prometheus.Labels{"method": "GET", "route": "unmatched", "status": "404"}
	before := testutil.ToFloat64(httpRequestsTotal.With(labels))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.With(labels)))
}
