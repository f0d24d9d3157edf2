package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthwatch/healthwatch/internal/config"
	"github.com/healthwatch/healthwatch/internal/outbreak"
	"github.com/healthwatch/healthwatch/internal/platform/export"
	"github.com/healthwatch/healthwatch/internal/platform/middleware"
	"github.com/healthwatch/healthwatch/internal/report"
	"github.com/healthwatch/healthwatch/internal/trends"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthwatch-server",
		Short: "Community symptom surveillance server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(storeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the surveillance API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the symptom log store",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store file with its header row if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			store := report.NewCSVStore(cfg.DataFile, cfg.CollectReporterName, logger)
			if err := store.EnsureInitialized(); err != nil {
				return err
			}
			fmt.Printf("Store ready at %s\n", cfg.DataFile)
			return nil
		},
	}
	cmd.AddCommand(initCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full dataset to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			store := report.NewCSVStore(cfg.DataFile, cfg.CollectReporterName, logger)
			records := store.LoadAll()

			var data []byte
			switch format {
			case "csv":
				data, err = export.CSV(records, cfg.CollectReporterName)
			case "xlsx":
				data, err = export.Excel(records, cfg.CollectReporterName)
			default:
				return fmt.Errorf("unsupported format %q (want csv or xlsx)", format)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Exported %d report(s) to %s\n", len(records), out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "", "Output file path")
	exportCmd.Flags().String("format", "csv", "Export format: csv or xlsx")
	cmd.AddCommand(exportCmd)

	return cmd
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	logger := newLogger()
	cfg, err := config.Load()
	if err != nil {
		return nil, logger, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, logger, err
	}
	return cfg, logger, nil
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Store
	store := report.NewCSVStore(cfg.DataFile, cfg.CollectReporterName, logger)
	if err := store.EnsureInitialized(); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	logger.Info().Str("path", cfg.DataFile).Bool("collect_reporter_name", cfg.CollectReporterName).Msg("store ready")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Domain handlers
	reportSvc := report.NewService(store, logger)
	report.NewHandler(reportSvc, store, cfg.CollectReporterName, logger).RegisterRoutes(apiV1)
	trends.NewHandler(store).RegisterRoutes(apiV1)
	outbreak.NewHandler(store, cfg.OutbreakThreshold, cfg.OutbreakWindowDays).RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}
