// Package atlas is a GraphQL client for an Atlas collection graph.
//
// Example usage:
//
//	client := atlas.NewClient(atlas.WithTimeout(10 * time.Second))
//
//	page, err := client.FetchPage(ctx, "atlas", 1, 25)
//	if errors.Is(err, content.ErrNotFound) {
//	    fmt.Println("404")
//	}
//
// Client implements content.Fetcher, so it can be handed directly to a
// content.Store or a playback.Scheduler.
package atlas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/entrhq/slides/pkg/content"
	"github.com/entrhq/slides/pkg/logging"
)

const (
	// DefaultEndpoint is the public Atlas graph.
	DefaultEndpoint = "https://atlas.auspic.es/graph/a460ff84-66e8-4380-aeab-8c0ff0155ddb"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "slides/0.1"

	// maxErrorBody caps how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// ErrContentNotFound is returned by FetchContent when the collection exists
// but the item does not. It matches content.ErrNotFound.
var ErrContentNotFound = fmt.Errorf("content %w", content.ErrNotFound)

// Client issues GraphQL queries over HTTP POST.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
	logger     *logging.Logger
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithEndpoint sets the GraphQL endpoint url.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for DefaultEndpoint unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		endpoint:   DefaultEndpoint,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNopLogger("atlas")
	}
	return c
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchPage returns one page of a collection's contents together with the
// collection metadata and total count.
func (c *Client) FetchPage(ctx context.Context, collectionID string, page, per int) (*content.Page, error) {
	var data rootData
	err := c.query(ctx, slidesQuery, map[string]any{
		"id":   collectionID,
		"page": page,
		"per":  per,
	}, &data)
	if err != nil {
		return nil, err
	}

	coll := data.collection()
	if coll == nil {
		return nil, fmt.Errorf("collection %q: %w", collectionID, content.ErrNotFound)
	}

	p := &content.Page{
		Number:     page,
		Per:        per,
		Collection: coll.toCollection(),
		Items:      make([]content.Item, 0, len(coll.Contents)),
	}
	for _, dto := range coll.Contents {
		p.Items = append(p.Items, dto.toItem())
	}

	c.logger.Debugf("page %d of %s: %d items (total %d)", page, collectionID, len(p.Items), p.Collection.Size)
	return p, nil
}

// Content is a single item looked up within its collection, with the ids of
// its neighbours.
type Content struct {
	Collection content.Collection
	Item       content.Item
	NextID     string
	PreviousID string
}

// FetchContent looks up one item of a collection.
func (c *Client) FetchContent(ctx context.Context, collectionID, contentID string) (*Content, error) {
	var data rootData
	err := c.query(ctx, collectionContentQuery, map[string]any{
		"collectionId": collectionID,
		"id":           contentID,
	}, &data)
	if err != nil {
		return nil, err
	}

	coll := data.collection()
	if coll == nil {
		return nil, fmt.Errorf("collection %q: %w", collectionID, content.ErrNotFound)
	}
	if coll.Content == nil {
		return nil, fmt.Errorf("item %q in collection %q: %w", contentID, collectionID, ErrContentNotFound)
	}

	return &Content{
		Collection: coll.toCollection(),
		Item:       coll.Content.toItem(),
		NextID:     refID(coll.Content.Next),
		PreviousID: refID(coll.Content.Previous),
	}, nil
}

// query posts a GraphQL request and decodes data into out. A NOT_FOUND error
// maps to content.ErrNotFound; every other failure to content.ErrTransport.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	bodyBytes, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %w", content.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", content.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: failed to send request: %w", content.ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("POST %s -> %d in %s", c.endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", content.ErrTransport, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	// GraphQL servers may pair errors with a non-2xx status; prefer the
	// structured error when there is one.
	if decodeErr == nil && len(env.Errors) > 0 {
		return graphErr(env.Errors[0])
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: request failed with status %d: %s", content.ErrTransport, resp.StatusCode, truncate(body))
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %w", content.ErrTransport, decodeErr)
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return fmt.Errorf("%w: response has no data", content.ErrTransport)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %w", content.ErrTransport, err)
	}
	return nil
}

func graphErr(e graphError) error {
	if e.Extensions.Code == codeNotFound {
		return fmt.Errorf("%s: %w", e.Message, content.ErrNotFound)
	}
	return fmt.Errorf("%w: %s", content.ErrTransport, e.Message)
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
