package curio

import (
	"net/http"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/match"
	"github.com/curioworks/curio/pkg/transform"
	"github.com/curioworks/curio/pkg/validate"
	"github.com/curioworks/curio/pkg/wikidata"
)

// config holds the assembled session settings
type config struct {
	endpoint  string
	schemaURL string
	language  string
	userAgent string
	token     string

	httpClient *http.Client
	client     *wikidata.Client
	searcher   match.Searcher

	chains transform.Resolver
	policy validate.Policy

	searchLimit int
	threshold   float64
	concurrency int
}

func defaultConfig() *config {
	return &config{
		language:    wikidata.DefaultLanguage,
		policy:      validate.DefaultPolicy(),
		searchLimit: wikidata.MaxSearchLimit,
		threshold:   match.AutoAcceptThreshold,
		concurrency: match.DefaultConcurrency,
	}
}

// clientOptions translates the config into knowledge-base client
// options.
func (c *config) clientOptions() []wikidata.Option {
	var opts []wikidata.Option
	if c.endpoint != "" {
		opts = append(opts, wikidata.WithBaseURL(c.endpoint))
	}
	if c.schemaURL != "" {
		opts = append(opts, wikidata.WithSchemaURL(c.schemaURL))
	}
	if c.language != "" {
		opts = append(opts, wikidata.WithLanguage(c.language))
	}
	if c.userAgent != "" {
		opts = append(opts, wikidata.WithUserAgent(c.userAgent))
	}
	if c.httpClient != nil {
		opts = append(opts, wikidata.WithHTTPClient(c.httpClient))
	}
	if c.token != "" {
		opts = append(opts, wikidata.WithAuth(&wikidata.BearerAuth{Token: c.token}))
	}
	return opts
}

// Option is a function that configures a Curio session
type Option func(*config) error

// options applies the given options to the session config.
func (c *curio) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return err
		}
	}
	return nil
}

// WithEndpoint configures the knowledge-base API endpoint
func WithEndpoint(url string) Option {
	return func(c *config) error {
		if url == "" {
			return errors.NewValidationError("endpoint", url, "endpoint cannot be empty")
		}
		c.endpoint = url
		return nil
	}
}

// WithSchemaEndpoint configures the entity-schema endpoint
func WithSchemaEndpoint(url string) Option {
	return func(c *config) error {
		c.schemaURL = url
		return nil
	}
}

// WithLanguage configures the label language for search and metadata
func WithLanguage(lang string) Option {
	return func(c *config) error {
		c.language = lang
		return nil
	}
}

// WithUserAgent configures the User-Agent sent to the knowledge base
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.userAgent = ua
		return nil
	}
}

// WithToken configures a bearer token for authenticated requests
func WithToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for all requests
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) error {
		c.httpClient = h
		return nil
	}
}

// WithClient supplies a preconfigured knowledge-base client,
// bypassing the endpoint options
func WithClient(client *wikidata.Client) Option {
	return func(c *config) error {
		c.client = client
		return nil
	}
}

// WithSearcher overrides the entity search used by the matching
// engine; the default is the knowledge-base client
func WithSearcher(s match.Searcher) Option {
	return func(c *config) error {
		c.searcher = s
		return nil
	}
}

// WithTransforms configures the per-mapping value transform chains
func WithTransforms(chains transform.Resolver) Option {
	return func(c *config) error {
		c.chains = chains
		return nil
	}
}

// WithConfirmPolicy overrides how invalid literals may be confirmed
// per datatype
func WithConfirmPolicy(policy validate.Policy) Option {
	return func(c *config) error {
		if policy == nil {
			return errors.NewValidationError("policy", nil, "policy cannot be nil")
		}
		c.policy = policy
		return nil
	}
}

// WithSearchLimit configures the per-query candidate limit
func WithSearchLimit(limit int) Option {
	return func(c *config) error {
		if limit <= 0 {
			return errors.NewValidationError("searchLimit", limit, "limit must be positive")
		}
		c.searchLimit = limit
		return nil
	}
}

// WithAutoAcceptThreshold configures the score at which candidates
// are accepted without confirmation
func WithAutoAcceptThreshold(threshold float64) Option {
	return func(c *config) error {
		if threshold <= 0 || threshold > 100 {
			return errors.NewValidationError("threshold", threshold, "threshold must be in (0, 100]")
		}
		c.threshold = threshold
		return nil
	}
}

// WithConcurrency bounds parallel candidate queries in batch runs
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewValidationError("concurrency", n, "concurrency must be positive")
		}
		c.concurrency = n
		return nil
	}
}
