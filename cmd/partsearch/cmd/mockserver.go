package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/partsearch/internal/api"
	apiclient "github.com/donaldgifford/partsearch/internal/api/client"
	"github.com/donaldgifford/partsearch/internal/api/fixtures"
	"github.com/donaldgifford/partsearch/internal/config"
	"github.com/donaldgifford/partsearch/internal/telemetry"
	"github.com/donaldgifford/partsearch/pkg/logger"
)

const defaultMockServer = "http://127.0.0.1:8089"

func mockServerCmd() *cobra.Command {
	var (
		host, fixturesDir, apiKey string
		port                      int
	)
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve a canned Octopart v2 API for local development",
		Long: "mock-server answers the Octopart v2 endpoints from JSON fixtures.\n" +
			"Unknown ids answer 404, maintenance mode answers 503, and an\n" +
			"optional API key is enforced on every call.",
		Example: `  partsearch mock-server --port 8089
  partsearch parts search 0603 --base-url http://127.0.0.1:8089/api/v2/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ms := &cfg.MockServer
			if cmd.Flags().Changed("host") {
				ms.Host = host
			}
			if cmd.Flags().Changed("port") {
				ms.Port = port
			}
			if fixturesDir != "" {
				ms.FixturesDir = fixturesDir
			}
			if apiKey != "" {
				ms.APIKey = apiKey
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runMockServer(cmdContext(cmd), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&host, "host", "", "listen host (default from config, 127.0.0.1)")
	f.IntVar(&port, "port", 0, "listen port (default from config, 8089)")
	f.StringVar(&fixturesDir, "fixtures", "", "directory with categories.json, parts.json and partattributes.json")
	f.StringVar(&apiKey, "require-api-key", "", "reject calls without this apikey")

	cmd.AddCommand(mockStatusCmd(), mockMaintenanceCmd())
	return cmd
}

func runMockServer(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetryConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn("flushing telemetry", "error", err)
		}
	}()

	catalog, err := loadCatalog(cfg.MockServer.FixturesDir)
	if err != nil {
		return err
	}
	log.Info("loaded fixtures",
		"categories", len(catalog.Categories),
		"parts", len(catalog.Parts),
		"attributes", len(catalog.PartAttributes),
	)

	srv := api.New(catalog,
		api.WithAPIKey(cfg.MockServer.APIKey),
		api.WithLogger(log),
		api.WithTimeouts(cfg.MockServer.ReadTimeout, cfg.MockServer.WriteTimeout),
	)

	addr := cfg.MockServer.Addr()
	log.Info("starting mock server", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
	}

	log.Info("shutting down mock server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.MockServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("mock server stopped")
	return nil
}

func loadCatalog(dir string) (*fixtures.Catalog, error) {
	if dir == "" {
		return fixtures.Default()
	}
	return fixtures.Load(os.DirFS(dir))
}

func mockStatusCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show a running mock server's health and maintenance mode",
		Example: `  partsearch mock-server status --server http://127.0.0.1:8089`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmdContext(cmd)
			c := apiclient.New(server)
			health, err := c.Health(ctx)
			if err != nil {
				return err
			}
			down, err := c.Maintenance(ctx)
			if err != nil {
				return err
			}
			tw := newTabWriter(cmd.OutOrStdout())
			tw.writef("Server:\t%s\n", server)
			tw.writef("Health:\t%s\n", health)
			tw.writef("Maintenance:\t%v\n", down)
			return tw.finish()
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultMockServer, "mock server URL")
	return cmd
}

func mockMaintenanceCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "maintenance <on|off>",
		Short: "Make a running mock server answer 503 like an Octopart outage",
		Example: `  partsearch mock-server maintenance on
  partsearch mock-server maintenance off --server http://127.0.0.1:9000`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var down bool
			switch args[0] {
			case "on":
				down = true
			case "off":
			default:
				return errors.New("want on or off")
			}
			got, err := apiclient.New(server).SetMaintenance(cmdContext(cmd), down)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "maintenance: %v\n", got)
			return err
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultMockServer, "mock server URL")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
