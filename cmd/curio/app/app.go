// Package app provides the application context and dependency wiring
// for the curio CLI: configuration, logging, and the reconciliation
// session facade.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/curioworks/curio"
	"github.com/curioworks/curio/pkg/transform"
)

// App represents the curio CLI application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Session facade (lazy-initialized)
	mu      sync.RWMutex
	session curio.Curio
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Session returns the reconciliation session facade, creating it lazily.
func (a *App) Session() (curio.Curio, error) {
	a.mu.RLock()
	if a.session != nil {
		s := a.session
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return a.session, nil
	}

	opts, err := a.buildSessionOptions()
	if err != nil {
		return nil, err
	}
	s, err := curio.New(opts...)
	if err != nil {
		return nil, err
	}

	a.session = s
	return s, nil
}

// buildSessionOptions constructs session options from the app
// configuration.
func (a *App) buildSessionOptions() ([]curio.Option, error) {
	var opts []curio.Option

	if a.config.Endpoint != "" {
		opts = append(opts, curio.WithEndpoint(a.config.Endpoint))
	}
	if a.config.SchemaEndpoint != "" {
		opts = append(opts, curio.WithSchemaEndpoint(a.config.SchemaEndpoint))
	}
	if a.config.Language != "" {
		opts = append(opts, curio.WithLanguage(a.config.Language))
	}
	if a.config.Token != "" {
		opts = append(opts, curio.WithToken(a.config.Token))
	}
	if a.config.SearchLimit > 0 {
		opts = append(opts, curio.WithSearchLimit(a.config.SearchLimit))
	}
	if a.config.AutoAcceptThreshold > 0 {
		opts = append(opts, curio.WithAutoAcceptThreshold(a.config.AutoAcceptThreshold))
	}
	if a.config.Concurrency > 0 {
		opts = append(opts, curio.WithConcurrency(a.config.Concurrency))
	}
	if a.config.TransformsFile != "" {
		library, err := transform.LoadLibrary(a.config.TransformsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, curio.WithTransforms(library))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSession sets a custom session facade (useful for testing).
func WithSession(s curio.Curio) Option {
	return func(a *App) error {
		a.session = s
		return nil
	}
}
