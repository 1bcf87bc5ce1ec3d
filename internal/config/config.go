package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Wizard    WizardConfig    `yaml:"wizard" envconfig:"WIZARD"`
	Site      SiteConfig      `yaml:"site" envconfig:"SITE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains admin authentication and request protection settings
type SecurityConfig struct {
	AdminUser         string          `yaml:"admin_user" envconfig:"ADMIN_USER"`
	AdminPasswordHash string          `yaml:"admin_password_hash" envconfig:"ADMIN_PASSWORD_HASH"`
	NonceSecret       string          `yaml:"nonce_secret" envconfig:"NONCE_SECRET"`
	NonceLifetime     time.Duration   `yaml:"nonce_lifetime" envconfig:"NONCE_LIFETIME"`
	RateLimit         RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL"`
	Format    string `yaml:"format" envconfig:"FORMAT"`
	Output    string `yaml:"output" envconfig:"OUTPUT"`
	FilePath  string `yaml:"file_path" envconfig:"FILE_PATH"`
	AddSource bool   `yaml:"add_source" envconfig:"ADD_SOURCE"`
}

// StorageConfig selects the option record backend
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER"`
	DSN    string `yaml:"dsn" envconfig:"DSN"`
}

// WizardConfig controls where and whether the setup wizard is served
type WizardConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	AdminPath string `yaml:"admin_path" envconfig:"ADMIN_PATH"`
	AdminURL  string `yaml:"admin_url" envconfig:"ADMIN_URL"`
	PageSlug  string `yaml:"page_slug" envconfig:"PAGE_SLUG"`
}

// SiteConfig describes the site the wizard configures.
// PostTypes and Taxonomies map a registered key to its display label and
// extend the built-in post, page, category and post_tag entries.
type SiteConfig struct {
	Multisite  bool              `yaml:"multisite" envconfig:"MULTISITE"`
	ProActive  bool              `yaml:"pro_active" envconfig:"PRO_ACTIVE"`
	PostTypes  map[string]string `yaml:"post_types" envconfig:"POST_TYPES"`
	Taxonomies map[string]string `yaml:"taxonomies" envconfig:"TAXONOMIES"`
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. An empty path skips the file; a path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable are left as they are, so file values survive
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// ListenAddr returns the host:port the HTTP server binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ResolvePath anchors a relative path at the executable directory.
// Absolute paths and the sqlite in-memory DSN are returned unchanged.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, ":memory:") || strings.HasPrefix(p, "file:") {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return p
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), p)
}

// validate checks ranges and normalises enumerations
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}

	if !strings.HasPrefix(c.Wizard.AdminPath, "/") {
		return fmt.Errorf("wizard admin path must be absolute: %q", c.Wizard.AdminPath)
	}

	if c.Wizard.AdminURL == "" {
		return fmt.Errorf("wizard admin url must not be empty")
	}

	// the last step redirects to the admin url; the wizard path would loop
	if c.Wizard.AdminURL == c.Wizard.AdminPath {
		return fmt.Errorf("wizard admin url must differ from the admin path: %q", c.Wizard.AdminURL)
	}

	if c.Wizard.PageSlug == "" {
		return fmt.Errorf("wizard page slug must not be empty")
	}

	if c.Security.AdminUser == "" {
		return fmt.Errorf("admin user must not be empty")
	}

	if c.Security.NonceLifetime <= 0 {
		return fmt.Errorf("nonce lifetime must be positive")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive when enabled")
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0,1]: %v", c.Telemetry.SampleRatio)
	}

	switch c.Telemetry.TraceExporter {
	case TraceExporterNone, TraceExporterStdout:
	default:
		return fmt.Errorf("unsupported trace exporter: %q", c.Telemetry.TraceExporter)
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/seopress.log"
	}

	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  10 * time.Second,
		},
		Security: SecurityConfig{
			AdminUser:     DefaultAdminUser,
			NonceLifetime: DefaultNonceLifetime,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/seopress.log",
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Wizard: WizardConfig{
			Enabled:   true,
			AdminPath: DefaultAdminPath,
			AdminURL:  DefaultAdminURL,
			PageSlug:  DefaultPageSlug,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  TraceExporterNone,
			MetricsEnabled: true,
			SampleRatio:    1.0,
		},
	}
}
