package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type TransactionRow struct {
	ID            string
	Type          string
	AmountCents   int64
	Category      string
	Description   string
	Notes         string
	Tags          string
	Date          string
	UserID        string
	AttachmentURL string
	Deleted       int64
	Synced        int64
}

type InsertTransactionParams struct {
	ID            string
	Type          string
	AmountCents   int64
	Category      string
	Description   string
	Notes         string
	Tags          string
	Date          string
	UserID        string
	AttachmentURL string
	Synced        int64
}

const insertTransaction = `
INSERT INTO transactions (id, type, amount_cents, category, description, notes, tags, date, user_id, attachment_url, synced)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    type = excluded.type,
    amount_cents = excluded.amount_cents,
    category = excluded.category,
    description = excluded.description,
    notes = excluded.notes,
    tags = excluded.tags,
    date = excluded.date,
    user_id = excluded.user_id,
    attachment_url = excluded.attachment_url
`

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		arg.ID, arg.Type, arg.AmountCents, arg.Category, arg.Description,
		arg.Notes, arg.Tags, arg.Date, arg.UserID, arg.AttachmentURL, arg.Synced)
	return err
}

const listTransactionsByDateRange = `
SELECT id, type, amount_cents, category, description, notes, tags, date, user_id, attachment_url, deleted, synced
FROM transactions
WHERE deleted = 0 AND date >= ? AND date <= ?
ORDER BY date ASC, id ASC
`

func (q *Queries) ListTransactionsByDateRange(ctx context.Context, start, end string) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByDateRange, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

const getTransaction = `
SELECT id, type, amount_cents, category, description, notes, tags, date, user_id, attachment_url, deleted, synced
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (TransactionRow, error) {
	var row TransactionRow
	err := q.db.QueryRowContext(ctx, getTransaction, id).Scan(
		&row.ID, &row.Type, &row.AmountCents, &row.Category, &row.Description,
		&row.Notes, &row.Tags, &row.Date, &row.UserID, &row.AttachmentURL,
		&row.Deleted, &row.Synced)
	return row, err
}

const softDeleteTransaction = `
UPDATE transactions SET deleted = 1 WHERE id = ? AND deleted = 0
`

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const restoreTransaction = `
UPDATE transactions SET deleted = 0 WHERE id = ? AND deleted = 1
`

func (q *Queries) RestoreTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, restoreTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listUnsyncedTransactions = `
SELECT id, type, amount_cents, category, description, notes, tags, date, user_id, attachment_url, deleted, synced
FROM transactions
WHERE synced = 0
ORDER BY date ASC, id ASC
LIMIT ?
`

func (q *Queries) ListUnsyncedTransactions(ctx context.Context, limit int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listUnsyncedTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

const markTransactionSynced = `
UPDATE transactions SET synced = 1 WHERE id = ?
`

func (q *Queries) MarkTransactionSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionSynced, id)
	return err
}

type BudgetRow struct {
	ID         string
	Category   string
	Year       int64
	Month      int64
	LimitCents int64
}

const listBudgetsByMonth = `
SELECT id, category, year, month, limit_cents
FROM budgets
WHERE year = ? AND month = ?
ORDER BY category ASC
`

func (q *Queries) ListBudgetsByMonth(ctx context.Context, year, month int64) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetsByMonth, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BudgetRow
	for rows.Next() {
		var row BudgetRow
		if err := rows.Scan(&row.ID, &row.Category, &row.Year, &row.Month, &row.LimitCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const upsertBudget = `
INSERT INTO budgets (id, category, year, month, limit_cents)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(category, year, month) DO UPDATE SET limit_cents = excluded.limit_cents
`

func (q *Queries) UpsertBudget(ctx context.Context, arg BudgetRow) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.ID, arg.Category, arg.Year, arg.Month, arg.LimitCents)
	return err
}

const listCategories = `
SELECT name FROM categories ORDER BY name ASC
`

func (q *Queries) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

const upsertCategory = `
INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING
`

func (q *Queries) UpsertCategory(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, upsertCategory, name)
	return err
}

func scanTransactionRows(rows *sql.Rows) ([]TransactionRow, error) {
	var out []TransactionRow
	for rows.Next() {
		var row TransactionRow
		if err := rows.Scan(
			&row.ID, &row.Type, &row.AmountCents, &row.Category, &row.Description,
			&row.Notes, &row.Tags, &row.Date, &row.UserID, &row.AttachmentURL,
			&row.Deleted, &row.Synced); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
