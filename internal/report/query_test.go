package report

import (
	"reflect"
	"testing"

	"paire/internal/core"
)

func TestQueryNoFiltersReturnsEverything(t *testing.T) {
	txs := sampleTransactions()
	page := Query(txs, Params{})
	if page.TotalItems != len(txs) {
		t.Fatalf("total items = %d, want %d", page.TotalItems, len(txs))
	}
	if len(page.Items) != len(txs) {
		t.Fatalf("items = %d, want %d", len(page.Items), len(txs))
	}
	if page.TotalPages != 1 {
		t.Fatalf("total pages = %d, want 1", page.TotalPages)
	}
}

func TestQueryTextFilter(t *testing.T) {
	txs := sampleTransactions()
	cases := []struct {
		name  string
		text  string
		want  int
		first string
	}{
		{"category match", "food", 2, "t2"},
		{"case insensitive", "FOOD", 2, "t2"},
		{"description match", "again", 1, "t3"},
		{"amount match", "300", 1, "t2"},
		{"no match", "zzz", 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Query(txs, Params{Text: tc.text})
			if page.TotalItems != tc.want {
				t.Fatalf("total items = %d, want %d", page.TotalItems, tc.want)
			}
			if tc.first != "" && page.Items[0].ID != tc.first {
				t.Fatalf("first item = %q, want %q", page.Items[0].ID, tc.first)
			}
		})
	}
}

func TestQueryMatchesNotesAndTags(t *testing.T) {
	txs := []core.Transaction{
		{ID: "n", Type: core.Expense, Amount: core.Money{Cents: 100}, Category: "misc",
			Notes: "split with Alex", Date: core.NewDate(2024, 1, 1)},
		{ID: "g", Type: core.Expense, Amount: core.Money{Cents: 100}, Category: "misc",
			Tags: []string{"vacation", "shared"}, Date: core.NewDate(2024, 1, 2)},
	}
	if page := Query(txs, Params{Text: "alex"}); page.TotalItems != 1 || page.Items[0].ID != "n" {
		t.Fatalf("notes match failed: %+v", page)
	}
	if page := Query(txs, Params{Text: "vacat"}); page.TotalItems != 1 || page.Items[0].ID != "g" {
		t.Fatalf("tag match failed: %+v", page)
	}
}

func TestQueryDateRangeInclusive(t *testing.T) {
	txs := sampleTransactions()

	// Jan 6 to Jan 31 keeps only the Jan 10 expense.
	page := Query(txs, Params{StartDate: core.NewDate(2024, 1, 6), EndDate: core.NewDate(2024, 1, 31)})
	if page.TotalItems != 1 || page.Items[0].ID != "t3" {
		t.Fatalf("expected only t3, got %+v", page)
	}

	// Bounds land exactly on transaction days: both ends inclusive.
	page = Query(txs, Params{StartDate: core.NewDate(2024, 1, 5), EndDate: core.NewDate(2024, 1, 10)})
	if page.TotalItems != 3 {
		t.Fatalf("inclusive bounds: total = %d, want 3", page.TotalItems)
	}

	// Open-ended start.
	page = Query(txs, Params{EndDate: core.NewDate(2024, 1, 5)})
	if page.TotalItems != 2 {
		t.Fatalf("open start: total = %d, want 2", page.TotalItems)
	}
}

func TestQueryPagination(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 25; i++ {
		txs = append(txs, core.Transaction{
			ID:       string(rune('a' + i)),
			Type:     core.Expense,
			Amount:   core.Money{Cents: int64(i+1) * 100},
			Category: "bulk",
			Date:     core.NewDate(2024, 1, 1+i%28),
		})
	}

	page := Query(txs, Params{Page: 1, PageSize: 10})
	if len(page.Items) != 10 || page.TotalItems != 25 || page.TotalPages != 3 {
		t.Fatalf("page 1: items=%d total=%d pages=%d", len(page.Items), page.TotalItems, page.TotalPages)
	}

	page = Query(txs, Params{Page: 3, PageSize: 10})
	if len(page.Items) != 5 {
		t.Fatalf("last page: items=%d, want 5", len(page.Items))
	}

	// Out-of-range page is empty, not an error, and keeps the totals.
	page = Query(txs, Params{Page: 7, PageSize: 10})
	if len(page.Items) != 0 || page.TotalItems != 25 || page.TotalPages != 3 {
		t.Fatalf("out of range: items=%d total=%d pages=%d", len(page.Items), page.TotalItems, page.TotalPages)
	}

	// Page below 1 is clamped to the first page.
	page = Query(txs, Params{Page: 0, PageSize: 10})
	if len(page.Items) != 10 || page.Items[0].ID != "a" {
		t.Fatalf("clamped page: %+v", page.Items)
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	txs := sampleTransactions()
	snapshot := make([]core.Transaction, len(txs))
	copy(snapshot, txs)

	Query(txs, Params{Text: "food", Page: 1, PageSize: 1})

	if !reflect.DeepEqual(txs, snapshot) {
		t.Fatalf("input slice was mutated")
	}
}

func TestQueryPageSizeBound(t *testing.T) {
	txs := sampleTransactions()
	for n := 1; n <= 5; n++ {
		page := Query(txs, Params{Page: 1, PageSize: n})
		if len(page.Items) > n {
			t.Fatalf("page size %d returned %d items", n, len(page.Items))
		}
	}
}
