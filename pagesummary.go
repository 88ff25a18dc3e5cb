// Package pagesummary summarizes web pages with a user-selected LLM provider
// and serves that capability over HTTP and MCP.
package pagesummary

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/localrivet/pagesummary/internal/config"
	"github.com/localrivet/pagesummary/internal/errortypes"
	"github.com/localrivet/pagesummary/internal/extract"
	"github.com/localrivet/pagesummary/internal/server"
	"github.com/localrivet/pagesummary/internal/settings"
	"github.com/localrivet/pagesummary/internal/settingsstore"
	"github.com/localrivet/pagesummary/internal/summarizer"
	"github.com/localrivet/pagesummary/internal/summarizer/providers"
	"github.com/localrivet/pagesummary/internal/telemetry"
)

// Config represents the configuration for the pagesummary service.
type Config = config.Config

// shutdownTimeout bounds how long in-flight HTTP requests may take to finish.
const shutdownTimeout = 10 * time.Second

// Service wires the settings store, the summarization dispatcher and the
// page extractor together.
type Service struct {
	config     *Config
	logger     *slog.Logger
	store      settingsstore.SettingsStore
	metrics    *telemetry.MetricsCollector
	summarizer *summarizer.Service
	extractor  *extract.Extractor

	// settingsMu serializes read-modify-write cycles on the store.
	settingsMu sync.Mutex
}

var _ server.Backend = (*Service)(nil)

// ServiceOptions defines the options for creating a new Service.
type ServiceOptions struct {
	Config     *Config      // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string       // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.
	Logger     *slog.Logger // External logger. If nil, slog.Default() is used.

	// HTTPClient is used for provider calls and page fetches. If nil, a
	// client with the configured timeout is created.
	HTTPClient *http.Client

	// Store is an initialized settings store. If nil, the SQLite store at
	// Config.Store.SQLitePath is opened.
	Store settingsstore.SettingsStore

	// Providers overrides the provider adapters.
	Providers summarizer.ProviderSource
}

// DefaultConfig returns the default configuration for the pagesummary service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// NewService creates a Service with the given options.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithLogger(opts.ConfigPath, logger)
		if err != nil {
			return nil, errortypes.ConfigError(err, "Failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Warn("No Config object or ConfigPath provided, using default configuration")
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, errortypes.ConfigError(err, "invalid configuration")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.ClientTimeout()}
	}

	store := opts.Store
	if store == nil {
		logger.Info("Initializing SQLite settings store", "path", cfg.Store.SQLitePath)
		sqliteStore := settingsstore.NewSQLiteSettingsStore(logger)
		if err := sqliteStore.Initialize(cfg.Store.SQLitePath); err != nil {
			return nil, err
		}
		store = sqliteStore
	}

	source := opts.Providers
	if source == nil {
		source = providers.NewRegistry(providers.Options{HTTPClient: client})
	}

	metrics := telemetry.NewMetricsCollector()
	dispatcher := summarizer.NewDispatcher(source, &summarizer.DispatcherConfig{
		Metrics: metrics,
		Logger:  logger,
	})

	logger.Info("pagesummary service initialized")
	return &Service{
		config:     cfg,
		logger:     logger,
		store:      store,
		metrics:    metrics,
		summarizer: summarizer.NewService(store, dispatcher),
		extractor:  extract.New(client, logger, metrics),
	}, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *Config {
	return s.config
}

// Metrics returns the collector every component records into.
func (s *Service) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}

// Summarize summarizes already extracted page content with the active provider.
func (s *Service) Summarize(ctx context.Context, req summarizer.SummaryRequest) (summarizer.SummaryResult, error) {
	if err := req.Validate(); err != nil {
		return summarizer.SummaryResult{}, err
	}
	return s.summarizer.Summarize(ctx, req)
}

// SummarizeURL fetches rawURL, extracts its readable text and summarizes it.
func (s *Service) SummarizeURL(ctx context.Context, rawURL string, style summarizer.Style) (extract.Page, summarizer.SummaryResult, error) {
	page, err := s.extractor.Fetch(ctx, rawURL)
	if err != nil {
		return extract.Page{}, summarizer.SummaryResult{}, err
	}

	result, err := s.Summarize(ctx, summarizer.SummaryRequest{
		Content:   page.Content,
		SourceURL: page.URL,
		Style:     style,
	})
	return page, result, err
}

// Settings returns the stored settings with credentials in clear.
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	start := time.Now()
	defer func() { s.metrics.RecordTimer(telemetry.MetricSettingsLoadTime, time.Since(start)) }()
	return s.store.Load(ctx)
}

// SaveSettings applies a settings document to the stored settings.
// Provider blocks and fields missing from p are left as they are, and
// credentials sent back in their masked form keep their stored value.
func (s *Service) SaveSettings(ctx context.Context, p settings.Patch) (settings.Settings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	current, err := s.Settings(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	next, err := current.ApplyPatch(p)
	if err != nil {
		return settings.Settings{}, errortypes.ValidationError(err, "invalid settings")
	}
	return s.save(ctx, next)
}

// UpdateSettings applies a partial change to the stored settings.
func (s *Service) UpdateSettings(ctx context.Context, u settings.Update) (settings.Settings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	current, err := s.Settings(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	next, err := current.Apply(u)
	if err != nil {
		return settings.Settings{}, errortypes.ValidationError(err, "invalid settings")
	}
	return s.save(ctx, next)
}

func (s *Service) save(ctx context.Context, next settings.Settings) (settings.Settings, error) {
	if err := s.store.Save(ctx, next); err != nil {
		return settings.Settings{}, err
	}
	s.metrics.IncrementCounter(telemetry.MetricSettingsSaves, 1)
	s.logger.Info("settings saved", "active_provider", string(next.APIType))
	return next, nil
}

// Health reports readiness from the stored settings and recorded metrics.
// No provider is contacted.
func (s *Service) Health(ctx context.Context) (*summarizer.HealthReport, error) {
	snapshot, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return summarizer.CreateHealthReport(s.metrics, snapshot)
}

// requestTimeout bounds one inbound request. A URL summary makes two
// sequential outbound calls.
func (s *Service) requestTimeout() time.Duration {
	return 2 * s.config.ClientTimeout()
}

// HTTPHandler returns the HTTP API.
func (s *Service) HTTPHandler() http.Handler {
	return server.NewAPI(s, server.HTTPOptions{
		AllowedOrigins: s.config.Origins(),
		RequestTimeout: s.requestTimeout(),
		Logger:         s.logger,
	})
}

// ListenAndServe serves the HTTP API on the configured address until ctx is
// cancelled, then shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.HTTP.ListenAddr)
	if err != nil {
		return errortypes.NetworkError(err, "failed to listen").WithField("addr", s.config.HTTP.ListenAddr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the HTTP API on ln until ctx is cancelled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("HTTP API listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errortypes.NetworkError(err, "HTTP server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ServeMCP serves the MCP tools on stdio until the client disconnects.
func (s *Service) ServeMCP() error {
	toolServer := server.NewMCPToolServer(s, s.logger, s.requestTimeout())
	if err := toolServer.Initialize(); err != nil {
		return err
	}
	defer toolServer.Stop()
	return toolServer.Start()
}

// Close releases the settings store.
func (s *Service) Close() error {
	s.logger.Info("Closing settings store")
	if err := s.store.Close(); err != nil {
		return errortypes.DatabaseError(err, "failed to close settings store")
	}
	return nil
}
