package monitoring

import (
	"fmt"
	"net/http"
)

// HealthHandler reports liveness based on the last search outcome.
func (m *Monitor) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if m.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", m.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", m.GetStatusSummary())
	}
}

// StatusHandler returns the plain-text counter summary.
func (m *Monitor) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", m.GetStatusSummary())
}
