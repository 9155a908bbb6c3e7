package http

import (
	"log/slog"
	"net/http"

	"paire/internal/report"
)

// handleSummary serves the aggregated dashboard for a date window:
// totals, category breakdown, daily trend and monthly comparison.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	cacheKey := window.Start.Key() + ":" + window.End.Key()
	if summary, ok := s.summaryCache.Get(cacheKey); ok {
		s.metrics.cacheHits.Add(1)
		NewJSONResponse().Body(summary).Write(w)
		return
	}
	s.metrics.cacheMisses.Add(1)

	txs, err := s.backend.ListTransactions(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions for summary",
			"error", err,
			"window_start", window.Start.Key(),
			"window_end", window.End.Key())
		InternalServerError("failed to load transactions").Write(w)
		return
	}

	summary := report.Aggregate(txs, window)
	s.summaryCache.Set(cacheKey, summary)

	NewJSONResponse().Body(summary).Write(w)
}
