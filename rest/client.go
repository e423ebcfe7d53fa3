// Package rest implements every remote collaborator interface over the
// record service's JSON HTTP API.
package rest

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
	"time"

	clientdesk "github.com/bansur/clientdesk-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Client talks to the remote record service. It implements RecordSource,
// CatalogSource, AgentSource, MutationBackend and AuthBackend.
type Client struct {
	baseURL    string
	http       *http.Client
	logger     *slog.Logger
	maxRetries uint64
	token      func() string
}

var (
	_ clientdesk.RecordSource    = (*Client)(nil)
	_ clientdesk.CatalogSource   = (*Client)(nil)
	_ clientdesk.AgentSource     = (*Client)(nil)
	_ clientdesk.MutationBackend = (*Client)(nil)
	_ clientdesk.AuthBackend     = (*Client)(nil)
)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. The default has a 30s timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxRetries sets how many times read requests are retried on
// transient failures. Mutations are never retried.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithTokenProvider sets a supplier for the bearer token attached to
// every request, typically the session manager's current token.
func WithTokenProvider(f func() string) Option {
	return func(c *Client) { c.token = f }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("clientdesk/rest: baseURL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		maxRetries: 2,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchRecords fetches the record collection, pushing the optional
// lifecycle-id and agent-id constraints to the server.
func (c *Client) FetchRecords(ctx context.Context, q clientdesk.ListQuery) ([]clientdesk.ClientRecord, error) {
	query := url.Values{}
	for _, id := range q.StateIDs {
		query.Add("stateId", strconv.Itoa(id))
	}
	if q.AgentID != 0 {
		query.Set("agentId", strconv.Itoa(q.AgentID))
	}

	var out []clientdesk.ClientRecord
	if err := c.getJSON(ctx, "/clients", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCatalog fetches the lifecycle catalog.
func (c *Client) FetchCatalog(ctx context.Context) ([]clientdesk.CatalogEntry, error) {
	var out []clientdesk.CatalogEntry
	if err := c.getJSON(ctx, "/states", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAgents fetches all known agents.
func (c *Client) FetchAgents(ctx context.Context) ([]clientdesk.AgentRef, error) {
	var out []clientdesk.AgentRef
	if err := c.getJSON(ctx, "/agents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetState issues the partial update carrying only the new state id.
func (c *Client) SetState(ctx context.Context, recordID, stateID int) error {
	body := map[string]int{"state": stateID}
	return c.send(ctx, http.MethodPatch, fmt.Sprintf("/clients/%d", recordID), body)
}

// UpdateRecord replaces a record's mutable fields.
func (c *Client) UpdateRecord(ctx context.Context, rec clientdesk.ClientRecord) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/clients/%d", rec.ID), rec)
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, recordID int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/clients/%d", recordID), nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  clientdesk.User `json:"user"`
	Token string          `json:"token"`
}

// Login exchanges credentials for the authenticated user and token.
func (c *Client) Login(ctx context.Context, email, password string) (*clientdesk.User, string, error) {
	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("clientdesk/rest: encode login: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("clientdesk/rest: login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("clientdesk/rest: login: status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, "", fmt.Errorf("clientdesk/rest: decode login response: %w", err)
	}
	return &lr.User, lr.Token, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("clientdesk/rest: build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}
	return req, nil
}

// getJSON performs a read with exponential-backoff retries. Server errors
// retry; client errors are permanent.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if len(query) > 0 {
			req.URL.RawQuery = query.Encode()
		}

		c.logger.Debug("GET", "path", path, "request_id", req.Header.Get("X-Request-ID"))

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("clientdesk/rest: %s %s: status %d", http.MethodGet, path, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(
				fmt.Errorf("clientdesk/rest: %s %s: status %d", http.MethodGet, path, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("clientdesk/rest: decode %s: %w", path, err))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(op, b)
}

// send performs a mutation without retries; the server resolves
// concurrent writers last-write-wins and a blind retry could reorder.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("clientdesk/rest: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug(method, "path", path, "request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("clientdesk/rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("clientdesk/rest: %s %s: status %d", method, path, resp.StatusCode)
	}
	return nil
}
