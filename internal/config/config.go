// Package config loads the process configuration: storage location, HTTP
// server settings and logging. Provider credentials are not configuration;
// they live in the settings store.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Config represents the pagesummary configuration
type Config struct {
	// Store contains storage-related configuration.
	Store struct {
		// SQLitePath is the path to the settings database file.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH" validate:"required"`
	} `json:"store"`

	// HTTP contains the API server and outbound client configuration.
	HTTP struct {
		// ListenAddr is the address the HTTP API listens on.
		ListenAddr string `json:"listen_addr" env:"HTTP_LISTEN_ADDR"`

		// AllowedOrigins is a comma separated list of CORS origins.
		AllowedOrigins string `json:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`

		// ClientTimeoutSeconds bounds outbound provider and page requests. Zero disables the timeout.
		ClientTimeoutSeconds int `json:"client_timeout_seconds" env:"HTTP_CLIENT_TIMEOUT_SECONDS"`
	} `json:"http"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".pagesummaryconfig"
	DefaultSQLitePath     = ".pagesummary.db"
	DefaultListenAddr     = "127.0.0.1:8787"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	EnvPrefix             = "PAGESUMMARY"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Store.SQLitePath = DefaultSQLitePath
	config.HTTP.ListenAddr = DefaultListenAddr
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path. A missing
// file still applies environment overrides on top of the defaults.
func LoadConfigWithPath(configPath string) (*Config, error) {
	return loadConfig(configPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// LoadConfigWithLogger is LoadConfigWithPath with loading progress logged to logger.
func LoadConfigWithLogger(configPath string, logger *slog.Logger) (*Config, error) {
	return loadConfig(configPath, logger)
}

func loadConfig(configPath string, logger *slog.Logger) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = DefaultConfigFilename
	}

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			logger.Debug("Found config file at " + foundPath)
		}
	}

	config := configurator.New(logger).
		WithProvider(configurator.NewDefaultProvider())

	if _, err := os.Stat(configPath); err == nil {
		logger.Info("Loading configuration", "path", configPath)
		config = config.WithProvider(configurator.NewFileProvider(configPath))
	} else {
		logger.Info("Config file not found, using default configuration", "path", configPath)
	}

	config = config.
		WithProvider(configurator.NewEnvProvider(EnvPrefix)).
		WithValidator(configurator.NewDefaultValidator())

	if err := config.Load(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// Validate checks values the struct tags cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.SQLitePath) == "" {
		return fmt.Errorf("store.sqlite_path is required")
	}
	if c.HTTP.ClientTimeoutSeconds < 0 {
		return fmt.Errorf("http.client_timeout_seconds must not be negative, got %d", c.HTTP.ClientTimeoutSeconds)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// ClientTimeout returns the outbound HTTP timeout; zero means none.
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.HTTP.ClientTimeoutSeconds) * time.Second
}

// Origins returns the trimmed, non-empty CORS origins.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.HTTP.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
