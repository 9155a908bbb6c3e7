package core

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultCategory is assigned when a record arrives without a category.
const DefaultCategory = "other"

// RawTransaction mirrors the wire shapes the finance API has emitted over
// time. Older deployments use snake_case identifiers and string amounts;
// newer ones use camelCase and numbers. Normalize folds all of them into
// the canonical Transaction.
type RawTransaction struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Amount        *float64 `json:"amount"`
	AmountText    string   `json:"amount_text"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Notes         string   `json:"notes"`
	Tags          []string `json:"tags"`
	Date          string   `json:"date"`
	UserID        string   `json:"userId"`
	UserIDLegacy  string   `json:"user_id"`
	AttachmentURL string   `json:"attachmentUrl"`
	AttachmentOld string   `json:"attachment_url"`
}

// Normalize maps a raw API record into the canonical Transaction.
//
// Defensive defaults per field: a missing amount becomes 0, a missing
// category becomes DefaultCategory, an unknown type counts as an expense.
// An unparseable date is the one unrecoverable input and returns an
// *InvalidRecordError.
func Normalize(raw RawTransaction) (Transaction, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return Transaction{}, &InvalidRecordError{RecordID: raw.ID, Field: "date", Value: raw.Date}
	}

	var cents int64
	switch {
	case raw.Amount != nil:
		cents = CentsFromFloat(*raw.Amount)
	case raw.AmountText != "":
		if c, err := ParseDecimalToCents(raw.AmountText); err == nil {
			cents = c
		}
	}

	txType := Expense
	if strings.EqualFold(strings.TrimSpace(raw.Type), string(Income)) {
		txType = Income
	}

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = DefaultCategory
	}

	userID := raw.UserID
	if userID == "" {
		userID = raw.UserIDLegacy
	}
	attachment := raw.AttachmentURL
	if attachment == "" {
		attachment = raw.AttachmentOld
	}

	return Transaction{
		ID:            raw.ID,
		Type:          txType,
		Amount:        Money{Cents: cents},
		Category:      category,
		Description:   strings.TrimSpace(raw.Description),
		Notes:         strings.TrimSpace(raw.Notes),
		Tags:          raw.Tags,
		Date:          date,
		UserID:        userID,
		AttachmentURL: attachment,
	}, nil
}

// NormalizeAll converts a batch, failing on the first unusable record.
func NormalizeAll(raws []RawTransaction) ([]Transaction, error) {
	out := make([]Transaction, 0, len(raws))
	for _, raw := range raws {
		tx, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// CanonicalCategory maps a free-form category name onto the closest known
// category. Exact matches (case-insensitive) win; otherwise a known name
// within edit distance 2 is accepted, which absorbs the typos and casing
// drift seen in older records ("Grocerys" -> "groceries"). Unmatched names
// pass through trimmed and lowercased.
func CanonicalCategory(name string, known []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultCategory
	}
	best := ""
	bestDist := 3
	for _, k := range known {
		kl := strings.ToLower(k)
		if kl == name {
			return kl
		}
		// Short names produce too many false positives at distance 2.
		if len(name) < 4 {
			continue
		}
		if d := levenshtein.ComputeDistance(name, kl); d < bestDist {
			best = kl
			bestDist = d
		}
	}
	if best != "" {
		return best
	}
	return name
}
