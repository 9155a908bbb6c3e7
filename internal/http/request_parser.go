// This file implements utilities for parsing and validating HTTP request
// data: window and query parameters plus transaction payload decoding.
package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"paire/internal/core"
	"paire/internal/report"
)

const maxBodyBytes = 1 << 20

// parseWindow extracts the start/end range from query parameters. Missing
// values default to the current month's edges, so a lone bound pairs with
// the current month's other edge.
func parseWindow(query url.Values) (core.Window, error) {
	now := time.Now()
	window := core.MonthWindow(now.Year(), int(now.Month()))

	if v := strings.TrimSpace(query.Get("start")); v != "" {
		start, err := core.ParseDate(v)
		if err != nil {
			return core.Window{}, fmt.Errorf("invalid start date %q", v)
		}
		window.Start = start
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		end, err := core.ParseDate(v)
		if err != nil {
			return core.Window{}, fmt.Errorf("invalid end date %q", v)
		}
		window.End = end
	}

	return window, nil
}

// parseQueryParams extracts filter and pagination parameters. Page size is
// clamped to [1, max], the page number to at least 1.
func parseQueryParams(query url.Values, defaultPageSize, maxPageSize int) (report.Params, error) {
	params := report.Params{
		Text:     strings.TrimSpace(query.Get("q")),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if v := strings.TrimSpace(query.Get("start")); v != "" {
		start, err := core.ParseDate(v)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid start date %q", v)
		}
		params.StartDate = start
	}
	if v := strings.TrimSpace(query.Get("end")); v != "" {
		end, err := core.ParseDate(v)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid end date %q", v)
		}
		params.EndDate = end
	}

	if v := strings.TrimSpace(query.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid page %q", v)
		}
		params.Page = page
	}
	if v := strings.TrimSpace(query.Get("page_size")); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return report.Params{}, fmt.Errorf("invalid page_size %q", v)
		}
		params.PageSize = size
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	return params, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(query url.Values) (year, month int, err error) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d", month)
	}

	return year, month, nil
}

// decodeTransactionBody reads a raw transaction payload and normalizes it
// into the canonical model.
func decodeTransactionBody(r *http.Request) (core.Transaction, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read body: %w", err)
	}

	var raw core.RawTransaction
	if err := json.Unmarshal(body, &raw); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}

	raw.Description = sanitizeInput(raw.Description)
	raw.Notes = sanitizeInput(raw.Notes)
	raw.Category = sanitizeInput(raw.Category)

	return core.Normalize(raw)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
