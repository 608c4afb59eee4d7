// Package api is the HTTP client of the bug tracker REST interface.
// Every returned error is a *faults.Envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
	"github.com/heartmarshall/bugtracker/internal/transport/rest"
)

const defaultTimeout = 10 * time.Second

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client calls the bug endpoints of one server. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.With("adapter", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the bugs matching f, in server order.
func (c *Client) List(ctx context.Context, f domain.BugFilter) ([]domain.Bug, error) {
	q := url.Values{}
	if f.Status != nil {
		q.Set("status", *f.Status)
	}
	if f.Priority != nil {
		q.Set("priority", *f.Priority)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort.String())
	}
	path := "/bugs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []rest.BugResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	bugs := make([]domain.Bug, 0, len(out))
	for _, r := range out {
		b, err := fromResponse(r)
		if err != nil {
			return nil, faults.New(err)
		}
		bugs = append(bugs, b)
	}
	return bugs, nil
}

// Get fetches one bug.
func (c *Client) Get(ctx context.Context, id string) (*domain.Bug, error) {
	return c.one(ctx, http.MethodGet, "/bugs/"+url.PathEscape(id), nil)
}

// Create submits a new bug. Only present fields are sent.
func (c *Client) Create(ctx context.Context, d domain.BugDraft) (*domain.Bug, error) {
	return c.one(ctx, http.MethodPost, "/bugs", encodeDraft(d))
}

// Update submits the present fields of d for bug id.
func (c *Client) Update(ctx context.Context, id string, d domain.BugDraft) (*domain.Bug, error) {
	return c.one(ctx, http.MethodPut, "/bugs/"+url.PathEscape(id), encodeDraft(d))
}

// Delete removes bug id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bugs/"+url.PathEscape(id), nil, nil)
}

func (c *Client) one(ctx context.Context, method, path string, body any) (*domain.Bug, error) {
	var out rest.BugResponse
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	b, err := fromResponse(out)
	if err != nil {
		return nil, faults.New(err)
	}
	return &b, nil
}

// do performs one round trip. data, when non-nil, receives the "data"
// member of a success body.
func (c *Client) do(ctx context.Context, method, path string, body, data any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return faults.New(fmt.Errorf("api: encode request: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return faults.Unreachable(fmt.Errorf("api: create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return faults.Unreachable(fmt.Errorf("api: %s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return faults.Unreachable(fmt.Errorf("api: read response: %w", err))
	}

	c.log.DebugContext(ctx, "api response",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e rest.ErrorResponse
		if err := json.Unmarshal(raw, &e); err != nil {
			return faults.Remote("", "", resp.StatusCode)
		}
		env := faults.Remote(e.Kind, e.Error, resp.StatusCode)
		if len(e.Errors) > 0 {
			env.Messages = e.Errors
		}
		return env
	}

	if data == nil {
		return nil
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return faults.New(fmt.Errorf("api: decode response: %w", err))
	}
	if err := json.Unmarshal(envelope.Data, data); err != nil {
		return faults.New(fmt.Errorf("api: decode data: %w", err))
	}
	return nil
}

func encodeDraft(d domain.BugDraft) map[string]string {
	out := make(map[string]string, 5)
	add := func(name string, f domain.Field) {
		if f.Present {
			out[name] = f.Value
		}
	}
	add("title", d.Title)
	add("description", d.Description)
	add("reporter", d.Reporter)
	add("status", d.Status)
	add("priority", d.Priority)
	return out
}

func fromResponse(r rest.BugResponse) (domain.Bug, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Bug{}, fmt.Errorf("api: response id %q: %w", r.ID, err)
	}
	return domain.Bug{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Reporter:    r.Reporter,
		Status:      domain.BugStatus(r.Status),
		Priority:    domain.BugPriority(r.Priority),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
