// Package config handles loading and validating the partsearch configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Octopart v2 API root.
const DefaultBaseURL = "http://octopart.com/api/v2/"

// Config is the top-level configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	MockServer MockServerConfig `yaml:"mock_server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// APIConfig defines Octopart client settings.
type APIConfig struct {
	BaseURL     string          `yaml:"base_url" validate:"required,url"`
	APIKey      string          `yaml:"api_key"`
	Callback    string          `yaml:"callback" validate:"omitempty,printascii,excludesall=()"`
	PrettyPrint bool            `yaml:"pretty_print"`
	Timeout     time.Duration   `yaml:"timeout" validate:"gt=0"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines API pacing. A zero daily limit disables the
// daily quota.
type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled"`
	PerSecond  float64 `yaml:"per_second" validate:"gt=0"`
	Burst      int     `yaml:"burst" validate:"gte=1"`
	DailyLimit int64   `yaml:"daily_limit" validate:"gte=0"`
}

// MockServerConfig defines the Echo server behind "partsearch mock-server".
type MockServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	APIKey          string        `yaml:"api_key"`
	FixturesDir     string        `yaml:"fixtures_dir" validate:"omitempty,dir"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port.
func (m *MockServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// TelemetryConfig defines OTLP export. An empty endpoint disables it.
type TelemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	SampleRatio    float64       `yaml:"sample_ratio" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `yaml:"metric_interval" validate:"gte=0"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config content.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyMockServerDefaults(&cfg.MockServer)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = DefaultBaseURL
	}
	if a.Timeout == 0 {
		a.Timeout = 30 * time.Second
	}
	applyRateLimitDefaults(&a.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 3.0
	}
	if r.Burst == 0 {
		r.Burst = 5
	}
}

func applyMockServerDefaults(m *MockServerConfig) {
	if m.Host == "" {
		m.Host = "127.0.0.1"
	}
	if m.Port == 0 {
		m.Port = 8089
	}
	if m.ReadTimeout == 0 {
		m.ReadTimeout = 30 * time.Second
	}
	if m.WriteTimeout == 0 {
		m.WriteTimeout = 30 * time.Second
	}
	if m.ShutdownTimeout == 0 {
		m.ShutdownTimeout = 10 * time.Second
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "partsearch"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = 15 * time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all violations at once, named by
// their YAML path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q check (got %v)", yamlPath(fe.StructNamespace()), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

var yamlNames = map[string]string{
	"API":             "api",
	"MockServer":      "mock_server",
	"Telemetry":       "telemetry",
	"Logging":         "logging",
	"RateLimit":       "rate_limit",
	"BaseURL":         "base_url",
	"APIKey":          "api_key",
	"Callback":        "callback",
	"Timeout":         "timeout",
	"PerSecond":       "per_second",
	"Burst":           "burst",
	"DailyLimit":      "daily_limit",
	"Port":            "port",
	"FixturesDir":     "fixtures_dir",
	"ReadTimeout":     "read_timeout",
	"WriteTimeout":    "write_timeout",
	"ShutdownTimeout": "shutdown_timeout",
	"Endpoint":        "endpoint",
	"SampleRatio":     "sample_ratio",
	"MetricInterval":  "metric_interval",
	"Level":           "level",
	"Format":          "format",
}

// yamlPath turns "Config.API.RateLimit.Burst" into "api.rate_limit.burst".
func yamlPath(ns string) string {
	parts := strings.Split(ns, ".")[1:]
	for i, p := range parts {
		if n, ok := yamlNames[p]; ok {
			parts[i] = n
		}
	}
	return strings.Join(parts, ".")
}
