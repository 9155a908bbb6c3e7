package http

import (
	"log/slog"
	"net/http"

	"paire/internal/core"
	"paire/internal/report"
)

// handleBudgets serves budget progress for one month: limit, spent,
// remaining and percentage used per category.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	budgets, err := s.backend.ListBudgets(r.Context(), year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list budgets", "error", err)
		InternalServerError("failed to load budgets").Write(w)
		return
	}

	txs, err := s.backend.ListTransactions(r.Context(), core.MonthWindow(year, month))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions for budgets", "error", err)
		InternalServerError("failed to load transactions").Write(w)
		return
	}

	statuses := report.BudgetProgress(budgets, txs)
	NewJSONResponse().Body(statuses).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	names, err := s.backend.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories", "error", err)
		InternalServerError("failed to load categories").Write(w)
		return
	}
	if names == nil {
		names = []string{}
	}
	NewJSONResponse().Body(names).Write(w)
}
