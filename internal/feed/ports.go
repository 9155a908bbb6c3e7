// Package feed defines the ports the HTTP layer and workers consume
// transaction data through. Adapters live in the subpackages (remote,
// memory) and in internal/storage.
package feed

import (
	"context"

	"paire/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionLister returns the canonical transactions inside a window.
	// Implementations must return a snapshot the caller may keep.
	TransactionLister interface {
		ListTransactions(ctx context.Context, window core.Window) ([]core.Transaction, error)
	}

	// TransactionWriter persists a new transaction and returns its id.
	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// TransactionDeleter removes and restores transactions. Deletes are
	// soft where the adapter supports it so that Restore can undo them.
	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id string) error
		RestoreTransaction(ctx context.Context, id string) error
	}

	// BudgetReader returns the monthly budgets for one year+month.
	BudgetReader interface {
		ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error)
	}

	// CategoryReader lists the known category names, used both for pickers
	// and for canonicalizing free-form input.
	CategoryReader interface {
		ListCategories(ctx context.Context) ([]string, error)
	}
)
