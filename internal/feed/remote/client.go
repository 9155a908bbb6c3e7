// Package remote is the HTTP adapter for the finance API that owns the
// source-of-truth records. It is the only place wire payloads exist;
// everything past this boundary works with core.Transaction.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"paire/internal/core"
)

const maxConcurrentPageFetches = 4

type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration, pageSize int) *Client {
	if pageSize < 1 {
		pageSize = 200
	}
	return &Client{
		baseURL:  baseURL,
		token:    token,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// listEnvelope is the server-paginated response shape. Older deployments
// return a bare array instead; decodeTransactionList accepts both.
type listEnvelope struct {
	Items      []core.RawTransaction `json:"items"`
	TotalCount int                   `json:"totalCount"`
	TotalPages int                   `json:"totalPages"`
}

// ListTransactions implements feed.TransactionLister. The first page tells
// us how many pages exist; the rest are fetched concurrently.
func (c *Client) ListTransactions(ctx context.Context, window core.Window) ([]core.Transaction, error) {
	first, totalPages, err := c.fetchPage(ctx, window, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions page 1: %w", err)
	}

	pages := make([][]core.Transaction, totalPages)
	pages[0] = first
	if totalPages > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentPageFetches)
		var mu sync.Mutex
		for page := 2; page <= totalPages; page++ {
			g.Go(func() error {
				items, _, err := c.fetchPage(gctx, window, page)
				if err != nil {
					return fmt.Errorf("fetch transactions page %d: %w", page, err)
				}
				mu.Lock()
				pages[page-1] = items
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var out []core.Transaction
	for _, p := range pages {
		out = append(out, p...)
	}
	slog.DebugContext(ctx, "Fetched transactions from remote feed",
		"count", len(out), "pages", totalPages,
		"window_start", window.Start.Key(), "window_end", window.End.Key())
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, window core.Window, page int) ([]core.Transaction, int, error) {
	q := url.Values{}
	q.Set("start", window.Start.Key())
	q.Set("end", window.End.Key())
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(c.pageSize))

	body, err := c.do(ctx, http.MethodGet, "/transactions?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	raws, totalPages, err := decodeTransactionList(body)
	if err != nil {
		return nil, 0, err
	}
	txs, err := core.NormalizeAll(raws)
	if err != nil {
		return nil, 0, fmt.Errorf("normalize records: %w", err)
	}
	return txs, totalPages, nil
}

// decodeTransactionList handles both payload shapes the API emits: the
// paginated {items, totalCount, totalPages} envelope and the legacy bare
// array. A bare array is by definition a single page.
func decodeTransactionList(body []byte) ([]core.RawTransaction, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raws []core.RawTransaction
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, 0, fmt.Errorf("decode transaction array: %w", err)
		}
		return raws, 1, nil
	}
	var env listEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, fmt.Errorf("decode transaction envelope: %w", err)
	}
	totalPages := env.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return env.Items, totalPages, nil
}

// CreateTransaction implements feed.TransactionWriter.
func (c *Client) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"id":            tx.ID,
		"type":          string(tx.Type),
		"amount":        tx.Amount.Unit(),
		"category":      tx.Category,
		"description":   tx.Description,
		"notes":         tx.Notes,
		"tags":          tx.Tags,
		"date":          tx.Date.Key(),
		"userId":        tx.UserID,
		"attachmentUrl": tx.AttachmentURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/transactions", payload)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.ID == "" {
		// Some deployments return 201 with an empty body; fall back to the
		// id we sent.
		return tx.ID, nil
	}
	return created.ID, nil
}

// DeleteTransaction implements feed.TransactionDeleter.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// RestoreTransaction implements feed.TransactionDeleter.
func (c *Client) RestoreTransaction(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodPost, "/transactions/"+url.PathEscape(id)+"/restore", nil); err != nil {
		return fmt.Errorf("restore transaction %s: %w", id, err)
	}
	return nil
}

// ListBudgets implements feed.BudgetReader.
func (c *Client) ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	body, err := c.do(ctx, http.MethodGet, "/budgets?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	var rows []struct {
		ID       string  `json:"id"`
		Category string  `json:"category"`
		Year     int     `json:"year"`
		Month    int     `json:"month"`
		Limit    float64 `json:"limit"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode budgets: %w", err)
	}

	budgets := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		budgets = append(budgets, core.Budget{
			ID:       row.ID,
			Category: row.Category,
			Year:     row.Year,
			Month:    row.Month,
			Limit:    core.Money{Cents: core.CentsFromFloat(row.Limit)},
		})
	}
	return budgets, nil
}

// ListCategories implements feed.CategoryReader.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return names, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return body, nil
}
