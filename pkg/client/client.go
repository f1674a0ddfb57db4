// Package client is a data-access client for the expense API.
//
// Create calls are retried on transport errors and server faults so that a
// timed-out request can safely be sent again: the expense ID acts as an
// idempotency key on the server side. Read calls are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = time.Second
)

var (
	// ErrNotFound is returned when no expense with the requested ID exists.
	ErrNotFound = errors.New("expense not found")

	// ErrNetwork is returned when the request did not produce a response.
	ErrNetwork = errors.New("network error. Please check your connection")

	// ErrUnexpected is returned for failures without a structured error body.
	ErrUnexpected = errors.New("an unexpected error occurred")
)

func init() {
	// Amounts are JSON numbers on the wire, e.g. 12.5
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is an expense record as returned by the API.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"` // In major currency units
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseCreate are the fields sent to create an expense.
type ExpenseCreate struct {
	ID          string          `json:"id,omitempty"` // Optional idempotency key
	Amount      decimal.Decimal `json:"amount"`       // In major currency units
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// Stats is the aggregate over a filtered set of expenses.
type Stats struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	Categories map[string]decimal.Decimal `json:"categories"`
}

// Filter restricts and orders the expenses returned by Expenses and Stats.
type Filter struct {
	Category string
	Sort     string // date_desc or date_asc
}

// Client calls the expense API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetries sets how often a failed create is retried.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retries = retries
	}
}

// WithRetryDelay sets the fixed delay between create attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

// New returns a client for the API at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// CreateExpense creates an expense.
//
// Validation failures (4xx) are returned immediately. Transport errors and
// server faults (5xx) are retried with a fixed delay until the retry budget
// is exhausted.
func (c *Client) CreateExpense(ctx context.Context, create ExpenseCreate) (Expense, error) {
	body, err := json.Marshal(create)
	if err != nil {
		return Expense{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Expense{}, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		resp, err := c.do(ctx, http.MethodPost, "/expenses", nil, bytes.NewReader(body))
		if err != nil {
			lastErr = ErrNetwork
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = apiError(resp)
			continue
		}

		// Client errors are not transient, retrying cannot help
		if resp.StatusCode != http.StatusCreated {
			return Expense{}, apiError(resp)
		}

		var expense Expense
		if err := decode(resp, &expense); err != nil {
			return Expense{}, err
		}

		return expense, nil
	}

	return Expense{}, lastErr
}

// Expenses returns all expenses matching the filter.
func (c *Client) Expenses(ctx context.Context, filter Filter) ([]Expense, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}

	resp, err := c.do(ctx, http.MethodGet, "/expenses", query, nil)
	if err != nil {
		return nil, ErrNetwork
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var expenses []Expense
	if err := decode(resp, &expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// Expense returns the expense with the given ID.
func (c *Client) Expense(ctx context.Context, id string) (Expense, error) {
	resp, err := c.do(ctx, http.MethodGet, "/expenses/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Expense{}, ErrNetwork
	}

	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return Expense{}, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return Expense{}, apiError(resp)
	}

	var expense Expense
	if err := decode(resp, &expense); err != nil {
		return Expense{}, err
	}

	return expense, nil
}

// Stats returns the aggregate over all expenses matching the filter.
func (c *Client) Stats(ctx context.Context, filter Filter) (Stats, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}

	resp, err := c.do(ctx, http.MethodGet, "/expenses/stats", query, nil)
	if err != nil {
		return Stats{}, ErrNetwork
	}

	if resp.StatusCode != http.StatusOK {
		return Stats{}, apiError(resp)
	}

	var stats Stats
	if err := decode(resp, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// apiError normalizes an error response to a single message.
func apiError(resp *http.Response) error {
	defer resp.Body.Close()

	var body struct {
		Error string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return errors.New(body.Error)
	}

	return ErrUnexpected
}

func decode(resp *http.Response, target any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
