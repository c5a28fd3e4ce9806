package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/filiperochalopes/esus-pec-mcp/internal/config"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/terminology"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/telemetry"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "pec-server",
		Short:        "Read-only clinical query tools over an e-SUS PEC database",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(toolsCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(presetsCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Definitions only; no query runs, so no pool is needed.
			reg := buildRegistry(nil, terminology.NewResolver(nil, nil), nil)
			return writeJSON(cmd.OutOrStdout(), reg.Definitions())
		},
	}
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <condition>",
		Short: "Resolve a condition name to CID-10 and CIAP codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			ctx := logger.WithContext(cmd.Context())
			pool, err := db.NewPool(ctx, cfg.DSN(), cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := terminology.NewResolver(terminology.NewCodeRepoPG(pool), catalog).Resolve(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int("limit", terminology.DefaultLimit, "maximum codes per coding system")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Print the active preset catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			return writePresets(cmd.OutOrStdout(), catalog)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePresets(w io.Writer, catalog *terminology.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]interface{}{"presets": catalog.Presets()}); err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	return enc.Close()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid configuration")
		return err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.PresetCatalogFile).Msg("failed to load preset catalog")
		return err
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DSN(), cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Int32("max_conns", cfg.DBMaxConns).Msg("connected to database")

	metrics := telemetry.NewMetrics(nil)

	resolver := terminology.NewResolver(terminology.NewCodeRepoPG(pool), catalog)
	reg := buildRegistry(pool, resolver, metrics)
	e := newEcho(cfg, logger, reg, metrics, db.HealthHandler(pool))

	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Int("tools", len(reg.Definitions())).
			Int("presets", len(catalog.Presets())).
			Msg("starting tool server")
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
