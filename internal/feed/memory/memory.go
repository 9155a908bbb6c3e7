// Package memory is the seedable in-process feed adapter used for
// development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"paire/internal/core"
)

type Store struct {
	mu         sync.Mutex
	items      []core.Transaction
	deleted    map[string]core.Transaction
	budgets    []core.Budget
	categories []string
}

func New(categories []string) *Store {
	return &Store{
		deleted:    make(map[string]core.Transaction),
		categories: dedupe(categories),
	}
}

// Seed replaces the stored transactions, keeping deletions empty. Intended
// for test setup and dev fixtures.
func (s *Store) Seed(txs []core.Transaction, budgets []core.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction(nil), txs...)
	s.budgets = append([]core.Budget(nil), budgets...)
	s.deleted = make(map[string]core.Transaction)
}

// ListTransactions implements feed.TransactionLister.
func (s *Store) ListTransactions(_ context.Context, window core.Window) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.items))
	for _, tx := range s.items {
		if window.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// CreateTransaction implements feed.TransactionWriter.
func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	tx.Category = core.CanonicalCategory(tx.Category, s.categories)
	s.items = append(s.items, tx)
	return tx.ID, nil
}

// DeleteTransaction implements feed.TransactionDeleter. The record is moved
// aside, not dropped, so Restore can bring it back.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.deleted[id] = tx
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %q: %w", id, core.ErrNotFound)
}

// RestoreTransaction implements feed.TransactionDeleter.
func (s *Store) RestoreTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.deleted[id]
	if !ok {
		return fmt.Errorf("restore %q: %w", id, core.ErrNotFound)
	}
	delete(s.deleted, id)
	s.items = append(s.items, tx)
	return nil
}

// ListBudgets implements feed.BudgetReader.
func (s *Store) ListBudgets(_ context.Context, year, month int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

// ListCategories implements feed.CategoryReader.
func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.categories...), nil
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
