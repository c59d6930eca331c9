package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/auth/verify/{token}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/auth/verify/{token}", "400"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify/abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/auth/verify/{token}", "400"))
	require.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(authEvents.WithLabelValues("login", "success"))
	RecordAuthEvent("login", "success")
	require.Equal(t, before+1, testutil.ToFloat64(authEvents.WithLabelValues("login", "success")))

	before = testutil.ToFloat64(mailDeliveries.WithLabelValues("failed"))
	RecordMailDelivery("failed")
	require.Equal(t, before+1, testutil.ToFloat64(mailDeliveries.WithLabelValues("failed")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordWatchlistAdd("added")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "watchlist_symbols_additions_total")
}
