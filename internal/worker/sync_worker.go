// Package worker mirrors local writes to the remote finance API and pulls
// remote changes back into the local database.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"paire/internal/amqp"
	"paire/internal/core"
	"paire/internal/feed"
	applog "paire/internal/log"
)

// LocalStore is the slice of the SQLite repository the worker needs.
type LocalStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListPendingSync(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id string) error
	ImportTransactions(ctx context.Context, txs []core.Transaction) error
}

// RemoteFeed is the slice of the remote API client the worker needs.
type RemoteFeed interface {
	feed.TransactionLister
	feed.TransactionWriter
	feed.TransactionDeleter
}

// MirrorWorker keeps the local database and the remote feed in step. AMQP
// messages drive the hot path, ProcessPending catches anything a lost
// message left behind, and Refresh pulls remote edits down.
type MirrorWorker struct {
	store     LocalStore
	remote    RemoteFeed
	batchSize int
}

func NewMirrorWorker(store LocalStore, remote RemoteFeed, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &MirrorWorker{
		store:     store,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "op", msg.Op)

	switch msg.Op {
	case amqp.OpCreate:
		return w.mirrorCreate(ctx, msg.ID)

	case amqp.OpDelete:
		if err := w.remote.DeleteTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("mirror delete: %w", err)
		}
		return nil

	case amqp.OpRestore:
		if err := w.remote.RestoreTransaction(ctx, msg.ID); err != nil {
			return fmt.Errorf("mirror restore: %w", err)
		}
		return nil

	default:
		// Unknown ops are dropped, requeueing them would loop forever.
		slog.WarnContext(ctx, "Dropping message with unknown op", "id", msg.ID, "op", msg.Op)
		return nil
	}
}

func (w *MirrorWorker) mirrorCreate(ctx context.Context, id string) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted before we got to it, nothing to mirror.
			slog.WarnContext(ctx, "Transaction vanished before sync", "id", id)
			return nil
		}
		return fmt.Errorf("load transaction: %w", err)
	}

	if _, err := w.remote.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("push transaction: %w", err)
	}
	if err := w.store.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to remote feed", "id", id)
	return nil
}

// ProcessPending pushes transactions that never made it through AMQP.
// This is a backup mechanism in case messages are lost.
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	var failed int
	for _, tx := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := w.remote.CreateTransaction(ctx, tx); err != nil {
			fields := applog.NewFields().WithOperation(applog.OpSync).WithError(err)
			fields[applog.FieldTransactionID] = tx.ID
			slog.ErrorContext(ctx, "Failed to push pending transaction", fields.ToSlice()...)
			failed++
			continue
		}
		if err := w.store.MarkSynced(ctx, tx.ID); err != nil {
			fields := applog.NewFields().WithOperation(applog.OpSync).WithError(err)
			fields[applog.FieldTransactionID] = tx.ID
			slog.ErrorContext(ctx, "Failed to mark transaction synced", fields.ToSlice()...)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pending transactions failed", failed, len(pending))
	}
	return nil
}

// Refresh pulls the window from the remote feed into the local database.
func (w *MirrorWorker) Refresh(ctx context.Context, window core.Window) error {
	txs, err := w.remote.ListTransactions(ctx, window)
	if err != nil {
		return fmt.Errorf("fetch remote transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil
	}
	if err := w.store.ImportTransactions(ctx, txs); err != nil {
		return fmt.Errorf("import transactions: %w", err)
	}
	return nil
}

// Run drives the periodic side of the worker until ctx is done. The AMQP
// consume loop runs separately, this covers lost messages and remote edits.
func (w *MirrorWorker) Run(ctx context.Context, refreshInterval time.Duration) error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping mirror worker", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "Pending sync pass failed",
					applog.NewFields().WithOperation(applog.OpSync).WithError(err).ToSlice()...)
			}

			now := time.Now()
			window := core.MonthWindow(now.Year(), int(now.Month()))
			if err := w.Refresh(ctx, window); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "Refresh pass failed",
					applog.NewFields().WithOperation(applog.OpRefresh).WithError(err).ToSlice()...)
			}
		}
	}
}
