package report

import (
	"strings"

	"paire/internal/core"
)

// Params selects and pages a transaction list. Zero values mean "no filter":
// empty Text skips text matching, zero dates skip the range check, and a
// PageSize of 0 or less returns every match on a single page.
type Params struct {
	Text      string
	StartDate core.Date
	EndDate   core.Date
	Page      int // 1-indexed
	PageSize  int
}

// Page is one page of matches plus the totals the pager needs.
type Page struct {
	Items      []core.Transaction `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
}

// Query filters and paginates without mutating the input slice.
//
// A record matches the text filter when ANY of description, category, notes,
// a tag, or the decimal form of the amount contains the query,
// case-insensitively. The date range is inclusive: the start is floored to
// midnight and the end ceilinged to the last instant of its day. A page past
// the end yields empty Items, not an error.
func Query(txs []core.Transaction, params Params) Page {
	needle := strings.ToLower(strings.TrimSpace(params.Text))

	matches := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if needle != "" && !matchesText(tx, needle) {
			continue
		}
		if !params.StartDate.IsZero() && tx.Date.Before(params.StartDate.StartOfDay()) {
			continue
		}
		if !params.EndDate.IsZero() && tx.Date.After(params.EndDate.EndOfDay()) {
			continue
		}
		matches = append(matches, tx)
	}

	page := Page{Items: []core.Transaction{}, TotalItems: len(matches)}
	if params.PageSize <= 0 {
		page.Items = matches
		if len(matches) > 0 {
			page.TotalPages = 1
		}
		return page
	}

	page.TotalPages = (len(matches) + params.PageSize - 1) / params.PageSize

	current := params.Page
	if current < 1 {
		current = 1
	}
	start := (current - 1) * params.PageSize
	if start >= len(matches) {
		return page
	}
	end := start + params.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	page.Items = matches[start:end]
	return page
}

func matchesText(tx core.Transaction, needle string) bool {
	if strings.Contains(strings.ToLower(tx.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Category), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Notes), needle) {
		return true
	}
	for _, tag := range tx.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return strings.Contains(tx.Amount.String(), needle)
}
