// Package wikidata provides a read-only client for the linked-data
// knowledge base consumed during reconciliation: free-text entity
// search, property datatype/constraint metadata, and entity-schema
// property suggestions.
package wikidata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/logging"
)

const (
	// DefaultBaseURL is the public Wikidata action API endpoint.
	DefaultBaseURL = "https://www.wikidata.org/w/api.php"

	// DefaultLanguage is the language used for labels and search.
	DefaultLanguage = "en"

	// MaxSearchLimit caps the number of candidates requested per query.
	MaxSearchLimit = 15

	// DefaultHTTPTimeout bounds a single API round trip.
	DefaultHTTPTimeout = 30 * time.Second

	defaultUserAgent = "curio/1.0 (https://github.com/curioworks/curio)"
)

// Client talks to the knowledge base API.
type Client struct {
	baseURL   string
	schemaURL string
	language  string
	userAgent string
	http      *http.Client
	auth      Authenticator
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different action API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithSchemaURL points the client at the entity-schema suggestion
// service. Empty disables schema suggestions.
func WithSchemaURL(u string) Option {
	return func(c *Client) { c.schemaURL = u }
}

// WithLanguage sets the label/search language.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAuth sets the authenticator applied to every request.
func WithAuth(auth Authenticator) Option {
	return func(c *Client) { c.auth = auth }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a knowledge base client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		language:  DefaultLanguage,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		auth:      &NoAuth{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs an authenticated GET against the action API and decodes
// the JSON response into out. All failures come back as QueryError so
// callers can treat them uniformly as transient.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.WrapQuery(endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	c.auth.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapQuery(endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewQueryError(endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapQuery(endpoint, resp.StatusCode, err)
	}

	logging.FromContext(ctx).Trace().
		Str("endpoint", endpoint).
		Msg("Knowledge base query completed")
	return nil
}
