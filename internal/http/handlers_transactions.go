package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"paire/internal/core"
	"paire/internal/report"
	"paire/internal/storage"
)

// handleListTransactions serves a filtered, paginated transaction list.
// The backend window is widened to cover the requested date range so the
// in-process filter sees every candidate record.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	params, err := parseQueryParams(r.URL.Query(), s.opts.DefaultPageSize, s.opts.MaxPageSize)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	cacheKey := fmt.Sprintf("%s:%s:%s:%d:%d",
		window.Start.Key(), window.End.Key(), params.Text, params.Page, params.PageSize)
	if page, ok := s.pageCache.Get(cacheKey); ok {
		s.metrics.cacheHits.Add(1)
		NewJSONResponse().Body(page).Write(w)
		return
	}
	s.metrics.cacheMisses.Add(1)

	txs, err := s.backend.ListTransactions(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		InternalServerError("failed to load transactions").Write(w)
		return
	}

	// The window already bounds the data, Query only applies text matching
	// and pagination here.
	params.StartDate = core.Date{}
	params.EndDate = core.Date{}
	page := report.Query(txs, params)
	s.pageCache.Set(cacheKey, page)

	NewJSONResponse().Body(page).Write(w)
}

// handleCreateTransaction accepts a raw transaction payload, normalizes it
// and stores it through the backend.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := decodeTransactionBody(r)
	if err != nil {
		var invalid *core.InvalidRecordError
		if errors.As(err, &invalid) {
			UnprocessableEntityError(invalid.Error()).Write(w)
			return
		}
		BadRequestError(err.Error()).Write(w)
		return
	}

	if err := tx.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	id, err := s.backend.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		InternalServerError("failed to create transaction").Write(w)
		return
	}

	s.metrics.transactionsNew.Add(1)
	s.invalidateCaches()

	slog.InfoContext(r.Context(), "Transaction created",
		"id", id,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	NewJSONResponse().Status(http.StatusCreated).Body(map[string]string{"id": id}).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequestError("missing transaction id").Write(w)
		return
	}

	if err := s.backend.DeleteTransaction(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			NotFoundError("transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "id", id, "error", err)
		InternalServerError("failed to delete transaction").Write(w)
		return
	}

	s.invalidateCaches()
	slog.InfoContext(r.Context(), "Transaction deleted", "id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequestError("missing transaction id").Write(w)
		return
	}

	if err := s.backend.RestoreTransaction(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			NotFoundError("transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Failed to restore transaction", "id", id, "error", err)
		InternalServerError("failed to restore transaction").Write(w)
		return
	}

	s.invalidateCaches()
	slog.InfoContext(r.Context(), "Transaction restored", "id", id)

	w.WriteHeader(http.StatusNoContent)
}
