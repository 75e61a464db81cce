// Package cmd implements the partsearch CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/partsearch/internal/config"
	"github.com/donaldgifford/partsearch/internal/telemetry"
	"github.com/donaldgifford/partsearch/pkg/logger"
	"github.com/donaldgifford/partsearch/pkg/octopart"
)

const envPrefix = "PARTSEARCH"

var cfgFile string

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "partsearch",
		Short: "Command-line client for the Octopart v2 parts-search API",
		Long: "partsearch queries the Octopart v2 REST API for categories, parts,\n" +
			"part attributes and BOM matches. Arguments are validated locally\n" +
			"before any request is sent.",
		SilenceUsage:      true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return initConfig() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.partsearch.yaml)")
	flags.String("base-url", "", "Octopart API root (default "+config.DefaultBaseURL+")")
	flags.String("api-key", "", "Octopart API key")
	flags.String("output", "table", "output format (table, json, raw)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	cobra.CheckErr(viper.BindPFlag("base_url", flags.Lookup("base-url")))
	cobra.CheckErr(viper.BindPFlag("api_key", flags.Lookup("api-key")))
	cobra.CheckErr(viper.BindPFlag("output", flags.Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("log_level", flags.Lookup("log-level")))

	root.AddCommand(
		categoriesCmd(),
		partsCmd(),
		attributesCmd(),
		bomCmd(),
		mockServerCmd(),
		versionCmd(),
	)

	return root
}

func initConfig() error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if cfgFile != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	if path := filepath.Join(home, ".partsearch.yaml"); fileExists(path) {
		cfgFile = path
	}
	return nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// loadConfig reads the config file, if any, and applies flag and
// PARTSEARCH_* environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if v := viper.GetString("base_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("api_key"); v != "" {
		cfg.API.APIKey = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.Logging.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is the per-invocation client state.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *octopart.Client
	shutdown telemetry.ShutdownFunc
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	shutdown, err := telemetry.Setup(ctx, telemetryConfig(cfg))
	if err != nil {
		return nil, err
	}

	opts := []octopart.Option{
		octopart.WithBaseURL(cfg.API.BaseURL),
		octopart.WithAPIKey(cfg.API.APIKey),
		octopart.WithCallback(cfg.API.Callback),
		octopart.WithPrettyPrint(cfg.API.PrettyPrint),
		octopart.WithLogger(log),
		octopart.WithHTTPClient(&http.Client{
			Timeout:   cfg.API.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}
	if rl := cfg.API.RateLimit; rl.Enabled {
		opts = append(opts, octopart.WithRateLimiter(
			octopart.NewRateLimiter(rl.PerSecond, rl.Burst, rl.DailyLimit),
		))
	}

	return &session{
		cfg:      cfg,
		logger:   log,
		client:   octopart.New(opts...),
		shutdown: shutdown,
	}, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		s.logger.Warn("flushing telemetry", "error", err)
	}
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		Version:        Version,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		MetricInterval: cfg.Telemetry.MetricInterval,
	}
}

// withClient runs fn with a configured client and flushes telemetry after.
func withClient(fn func(ctx context.Context, cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(ctx, cmd, s, args)
	}
}

func outputFormat() string {
	return viper.GetString("output")
}
