package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"paire/internal/amqp"
	"paire/internal/core"
	"paire/internal/feed"
)

// Store is the local persistence surface the service orchestrates. The
// SQLite repository and the in-memory store both satisfy it.
type Store interface {
	feed.TransactionLister
	feed.TransactionWriter
	feed.TransactionDeleter
	feed.BudgetReader
	feed.CategoryReader
}

// SyncPublisher emits change notifications for the mirror worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, op string) error
	Close() error
}

// TransactionService writes to local storage first and publishes a sync
// message afterwards. Publish failures never fail the request, the worker
// catches up from the unsynced rows instead.
type TransactionService struct {
	store     Store
	publisher SyncPublisher
}

func NewTransactionService(store Store, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// ListTransactions implements feed.TransactionLister.
func (s *TransactionService) ListTransactions(ctx context.Context, window core.Window) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, window)
}

// CreateTransaction implements feed.TransactionWriter.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.OpCreate); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Transaction is saved locally, the worker will pick it up.
	}

	return id, nil
}

// DeleteTransaction implements feed.TransactionDeleter.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.OpDelete); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}

	return nil
}

// RestoreTransaction implements feed.TransactionDeleter.
func (s *TransactionService) RestoreTransaction(ctx context.Context, id string) error {
	if err := s.store.RestoreTransaction(ctx, id); err != nil {
		return fmt.Errorf("restore transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.OpRestore); err != nil {
		slog.ErrorContext(ctx, "Failed to publish restore message",
			"id", id, "error", err)
	}

	return nil
}

// ListBudgets implements feed.BudgetReader.
func (s *TransactionService) ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, year, month)
}

// ListCategories implements feed.CategoryReader.
func (s *TransactionService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

func (s *TransactionService) publish(ctx context.Context, id, op string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Sync publisher not available, skipping message", "id", id, "op", op)
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id, op)
}

// Close closes the publisher and the store when it owns closable resources.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
