package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType partitions transactions into exactly two disjoint sets.
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the canonical record every other layer works with.
	// Heterogeneous server payloads are mapped into this shape at the feed
	// boundary; see normalize.go.
	Transaction struct {
		ID            string          `json:"id"`
		Type          TransactionType `json:"type"`
		Amount        Money           `json:"amount"`
		Category      string          `json:"category"`
		Description   string          `json:"description"`
		Notes         string          `json:"notes,omitempty"`
		Tags          []string        `json:"tags,omitempty"`
		Date          Date            `json:"date"`
		UserID        string          `json:"userId,omitempty"`
		AttachmentURL string          `json:"attachmentUrl,omitempty"`
	}

	// Budget is a per-category spending limit for one calendar month.
	Budget struct {
		ID       string `json:"id"`
		Category string `json:"category"`
		Year     int    `json:"year"`
		Month    int    `json:"month"`
		Limit    Money  `json:"limit"`
	}

	// Window is the reporting range aggregates are computed over.
	Window struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
	ErrNotFound         = errors.New("transaction not found")
)

// InvalidRecordError reports a record that cannot be normalized. An
// unparseable date is unrecoverable and always surfaces as this error.
type InvalidRecordError struct {
	RecordID string
	Field    string
	Value    string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %q: field %s has unusable value %q", e.RecordID, e.Field, e.Value)
}

func (e *InvalidRecordError) Unwrap() error {
	if e.Field == "date" {
		return ErrInvalidDate
	}
	return ErrInvalidType
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

// IsExpense reports whether the type counts toward spending totals.
func (t TransactionType) IsExpense() bool { return t == Expense }

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts the date formats the finance API is known to emit.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the yyyy-MM-dd form used for per-day bucketing and JSON output.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// StartOfDay floors the date to 00:00:00 of its calendar day.
func (d Date) StartOfDay() time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

// EndOfDay ceilings the date to the last instant of its calendar day.
func (d Date) EndOfDay() time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Key() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthWindow returns the window covering one calendar month.
func MonthWindow(year, month int) Window {
	start := NewDate(year, month, 1)
	end := Date{Time: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
	return Window{Start: start, End: end}
}

// Days returns the window length in whole days, rounded up, never below 1.
func (w Window) Days() int {
	span := w.End.Sub(w.Start.Time)
	if span <= 0 {
		return 1
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Contains reports whether d falls inside the window, inclusive on both ends.
func (w Window) Contains(d Date) bool {
	t := d.Time
	return !t.Before(w.Start.StartOfDay()) && !t.After(w.End.EndOfDay())
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidDate
	}
	if b.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
