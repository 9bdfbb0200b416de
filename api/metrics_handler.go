package api

import (
	"encoding/json"
	"net/http"

	"github.com/yourusername/nfw/metrics"
)

// MetricsProvider is anything that can report a metrics snapshot
type MetricsProvider interface {
	GetSnapshot() *metrics.Snapshot
}

// MetricsHandler serves the delegate's propagation counters
type MetricsHandler struct {
	provider MetricsProvider
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(provider MetricsProvider) *MetricsHandler {
	return &MetricsHandler{provider: provider}
}

// ServeHTTP handles GET /metrics. Snapshots change on every write, so
// responses are never cached.
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:   "method_not_allowed",
			Message: "Only GET requests are allowed",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(h.provider.GetSnapshot())
}
