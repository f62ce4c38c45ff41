// Package client forwards filter documents and CRUD operations to a remote
// document-store service over HTTP.
//
// The find and count endpoints receive the compiled filter text verbatim as
// a text/plain body: the serializer output is a wire contract with the remote
// parser, so the client never re-encodes it.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/filterq/auth"
	"github.com/hupe1980/filterq/codec"
	"github.com/hupe1980/filterq/filter"
)

// ErrForbidden is returned when the configured scopes do not grant the route.
var ErrForbidden = errors.New("scope does not grant route")

// StatusError reports a non-2xx response from the remote service.
//
// The response body (truncated) is retained for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Body)
}

// Client talks to a remote document-store service.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	scopes  []string
	codec   codec.Codec
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithRateLimit caps outgoing requests at rps requests per second with the
// given burst. Calls block on the limiter (honoring the context) before any
// network I/O.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithScopes restricts the client to routes granted by the given scopes
// (see package auth). Without scopes, every route is allowed.
func WithScopes(scopes ...string) Option {
	return func(c *Client) { c.scopes = scopes }
}

// WithCodec selects the codec used for JSON request/response bodies.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) {
		if cd != nil {
			c.codec = cd
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 0),
		codec:   codec.Default,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find forwards a compiled filter document to the remote find endpoint and
// returns the raw response body (a paginated JSON result set). A nil filter
// sends "{}", which the remote reads as "match everything".
func (c *Client) Find(ctx context.Context, collection string, doc *filter.Document) ([]byte, error) {
	return c.findRoute(ctx, "find", collection, doc)
}

// Aggregate forwards an aggregation pipeline to the remote aggregate
// endpoint and returns the raw response body. The pipeline text travels
// verbatim as a text/plain body, like compiled filter text; an empty
// pipeline sends "[]", the empty pipeline.
func (c *Client) Aggregate(ctx context.Context, collection, pipeline string) ([]byte, error) {
	if pipeline == "" {
		pipeline = "[]"
	}
	return c.do(ctx, http.MethodPost, "aggregate/"+collection, "text/plain", []byte(pipeline))
}

// Count forwards a compiled filter document to the remote count endpoint.
func (c *Client) Count(ctx context.Context, collection string, doc *filter.Document) (int64, error) {
	body, err := c.findRoute(ctx, "count", collection, doc)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int64 `json:"count"`
	}
	if err := c.codec.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return out.Count, nil
}

func (c *Client) findRoute(ctx context.Context, verb, collection string, doc *filter.Document) ([]byte, error) {
	filterText := "{}"
	if doc != nil {
		filterText = doc.String()
	}

	route := verb + "/" + collection
	body, err := c.do(ctx, http.MethodPost, route, "text/plain", []byte(filterText))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Save creates a document in the named collection and returns the raw
// response body (typically the stored document with its assigned ID).
func (c *Client) Save(ctx context.Context, collection string, doc any) ([]byte, error) {
	payload, err := c.codec.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, collection, "application/json", payload)
}

// Get fetches one document by ID.
func (c *Client) Get(ctx context.Context, collection, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, collection+"/"+id, "", nil)
}

// Update replaces one document by ID.
func (c *Client) Update(ctx context.Context, collection, id string, doc any) error {
	payload, err := c.codec.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, collection+"/"+id, "application/json", payload)
	return err
}

// Delete removes one document by ID.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	_, err := c.do(ctx, http.MethodDelete, collection+"/"+id, "", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, route, contentType string, body []byte) ([]byte, error) {
	if len(c.scopes) > 0 && !auth.Allowed(c.scopes, route) {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, route)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+route, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(data), 256)}
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
