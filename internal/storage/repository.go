package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"paire/internal/core"
	applog "paire/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists transactions, budgets and categories locally.
// It implements every port in the feed package, which lets the server run
// fully offline while a worker mirrors writes to the remote feed.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements feed.TransactionLister.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, window core.Window) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByDateRange(ctx, window.Start.Key(), window.End.Key())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// CreateTransaction implements feed.TransactionWriter.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	known, err := r.queries.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("list categories: %w", err)
	}
	tx.Category = core.CanonicalCategory(tx.Category, known)
	if err := r.queries.UpsertCategory(ctx, tx.Category); err != nil {
		return "", fmt.Errorf("upsert category: %w", err)
	}

	err = r.queries.InsertTransaction(ctx, InsertTransactionParams{
		ID:            tx.ID,
		Type:          string(tx.Type),
		AmountCents:   tx.Amount.Cents,
		Category:      tx.Category,
		Description:   tx.Description,
		Notes:         tx.Notes,
		Tags:          strings.Join(tx.Tags, ","),
		Date:          tx.Date.Key(),
		UserID:        tx.UserID,
		AttachmentURL: tx.AttachmentURL,
		Synced:        0,
	})
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	fields := applog.NewFields().
		WithComponent(applog.ComponentStorage).
		WithOperation(applog.OpCreate).
		WithTransaction(tx.ID, string(tx.Type), tx.Category, tx.Amount.Cents)
	slog.InfoContext(ctx, "Transaction saved to SQLite", fields.ToSlice()...)

	return tx.ID, nil
}

// GetTransaction returns one transaction by id, deleted rows included so
// the worker can mirror deletions.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return rowToTransaction(row)
}

// DeleteTransaction implements feed.TransactionDeleter.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	affected, err := r.queries.SoftDeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// RestoreTransaction implements feed.TransactionDeleter.
func (r *SQLiteRepository) RestoreTransaction(ctx context.Context, id string) error {
	affected, err := r.queries.RestoreTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("restore transaction: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListBudgets implements feed.BudgetReader.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgetsByMonth(ctx, int64(year), int64(month))
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	budgets := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		budgets = append(budgets, core.Budget{
			ID:       row.ID,
			Category: row.Category,
			Year:     int(row.Year),
			Month:    int(row.Month),
			Limit:    core.Money{Cents: row.LimitCents},
		})
	}
	return budgets, nil
}

// SaveBudget stores or updates a monthly spending limit.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := r.queries.UpsertBudget(ctx, BudgetRow{
		ID:         b.ID,
		Category:   strings.ToLower(strings.TrimSpace(b.Category)),
		Year:       int64(b.Year),
		Month:      int64(b.Month),
		LimitCents: b.Limit.Cents,
	})
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// ListCategories implements feed.CategoryReader.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	names, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

// ListPendingSync returns transactions not yet mirrored to the remote feed.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.queries.ListUnsyncedTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list unsynced transactions: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// MarkSynced records that a transaction has been mirrored remotely.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// ImportTransactions stores records fetched from the remote feed. Imported
// rows are already synced so the worker never echoes them back.
func (r *SQLiteRepository) ImportTransactions(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer dbtx.Rollback()

	q := New(dbtx)
	for _, tx := range txs {
		err := q.InsertTransaction(ctx, InsertTransactionParams{
			ID:            tx.ID,
			Type:          string(tx.Type),
			AmountCents:   tx.Amount.Cents,
			Category:      tx.Category,
			Description:   tx.Description,
			Notes:         tx.Notes,
			Tags:          strings.Join(tx.Tags, ","),
			Date:          tx.Date.Key(),
			UserID:        tx.UserID,
			AttachmentURL: tx.AttachmentURL,
			Synced:        1,
		})
		if err != nil {
			return fmt.Errorf("import transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Imported transactions from remote feed", applog.FieldCount, len(txs))
	return nil
}

func rowToTransaction(row TransactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, &core.InvalidRecordError{
			RecordID: row.ID,
			Field:    "date",
			Value:    row.Date,
		}
	}

	var tags []string
	if row.Tags != "" {
		tags = strings.Split(row.Tags, ",")
	}

	return core.Transaction{
		ID:            row.ID,
		Type:          core.TransactionType(row.Type),
		Amount:        core.Money{Cents: row.AmountCents},
		Category:      row.Category,
		Description:   row.Description,
		Notes:         row.Notes,
		Tags:          tags,
		Date:          date,
		UserID:        row.UserID,
		AttachmentURL: row.AttachmentURL,
	}, nil
}

// IsNotFound reports whether err indicates a missing row, either ours or
// the driver's.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
