package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2024-01-05", true, "2024-01-05"},
		{"2024-01-05T12:30:00Z", true, "2024-01-05"},
		{"2024-01-05T12:30:00", true, "2024-01-05"},
		{"05/01/2024", false, ""},
		{"", false, ""},
		{"not-a-date", false, ""},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("case %d expected error", i)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
			}
			continue
		}
		if got := d.Key(); got != tc.want {
			t.Fatalf("case %d key=%q want %q", i, got, tc.want)
		}
	}
}

func TestWindowDays(t *testing.T) {
	cases := []struct {
		name string
		w    Window
		want int
	}{
		{"january", MonthWindow(2024, 1), 31},
		{"february leap", MonthWindow(2024, 2), 29},
		{"single day", Window{Start: NewDate(2024, 1, 5), End: NewDate(2024, 1, 5)}, 1},
		{"inverted", Window{Start: NewDate(2024, 1, 10), End: NewDate(2024, 1, 5)}, 1},
		{"week", Window{Start: NewDate(2024, 1, 1), End: NewDate(2024, 1, 8)}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.w.Days(); got != tc.want {
				t.Fatalf("Days() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := MonthWindow(2024, 1)
	if !w.Contains(NewDate(2024, 1, 1)) {
		t.Fatalf("first day should be inside")
	}
	if !w.Contains(NewDate(2024, 1, 31)) {
		t.Fatalf("last day should be inside")
	}
	if w.Contains(NewDate(2024, 2, 1)) {
		t.Fatalf("next month should be outside")
	}
	if w.Contains(NewDate(2023, 12, 31)) {
		t.Fatalf("previous month should be outside")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Type:     Expense,
		Amount:   Money{Cents: 100},
		Category: "food",
		Date:     NewDate(2024, 1, 5),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Amount: Money{Cents: 1}, Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "c", Date: Date{Time: time.Time{}}},
		{Type: Expense, Amount: Money{Cents: -1}, Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: Money{Cents: 1}, Category: "  ", Date: NewDate(2024, 1, 1)},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "food", Year: 2024, Month: 1, Limit: Money{Cents: 50000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Budget{
		{Category: "", Year: 2024, Month: 1, Limit: Money{Cents: 1}},
		{Category: "food", Year: 2024, Month: 0, Limit: Money{Cents: 1}},
		{Category: "food", Year: 2024, Month: 13, Limit: Money{Cents: 1}},
		{Category: "food", Year: 2024, Month: 1, Limit: Money{Cents: -1}},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestInvalidRecordError(t *testing.T) {
	err := &InvalidRecordError{RecordID: "abc", Field: "date", Value: "bogus"}
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected unwrap to ErrInvalidDate")
	}
	if msg := err.Error(); msg == "" {
		t.Fatalf("expected descriptive message")
	}
}
