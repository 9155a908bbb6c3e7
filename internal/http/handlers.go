package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady probes the backend with a cheap read so the check fails
// while the data source is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.backend.ListCategories(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("backend unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes request counters in Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	fmt.Fprintf(w, "# HELP paire_requests_total Total HTTP requests handled.\n")
	fmt.Fprintf(w, "# TYPE paire_requests_total counter\n")
	fmt.Fprintf(w, "paire_requests_total %d\n", s.metrics.requestsTotal.Load())

	fmt.Fprintf(w, "# HELP paire_request_errors_total Requests that ended in a 5xx status.\n")
	fmt.Fprintf(w, "# TYPE paire_request_errors_total counter\n")
	fmt.Fprintf(w, "paire_request_errors_total %d\n", s.metrics.requestErrors.Load())

	fmt.Fprintf(w, "# HELP paire_cache_hits_total Summary and page cache hits.\n")
	fmt.Fprintf(w, "# TYPE paire_cache_hits_total counter\n")
	fmt.Fprintf(w, "paire_cache_hits_total %d\n", s.metrics.cacheHits.Load())

	fmt.Fprintf(w, "# HELP paire_cache_misses_total Summary and page cache misses.\n")
	fmt.Fprintf(w, "# TYPE paire_cache_misses_total counter\n")
	fmt.Fprintf(w, "paire_cache_misses_total %d\n", s.metrics.cacheMisses.Load())

	fmt.Fprintf(w, "# HELP paire_transactions_created_total Transactions created through the API.\n")
	fmt.Fprintf(w, "# TYPE paire_transactions_created_total counter\n")
	fmt.Fprintf(w, "paire_transactions_created_total %d\n", s.metrics.transactionsNew.Load())
}
