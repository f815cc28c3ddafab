// Package cmd implements the CLI commands for restock-tracker.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/restock-tracker/internal/catalog"
	"github.com/donaldgifford/restock-tracker/internal/config"
	"github.com/donaldgifford/restock-tracker/internal/engine"
	"github.com/donaldgifford/restock-tracker/internal/telemetry"
	"github.com/donaldgifford/restock-tracker/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "restock-tracker",
	Short: "Alert on product restocks and quick commerce offers",
	Long: "A service that polls retailer stock APIs for tracked products across\n" +
		"delivery pincodes, scans BigBasket listing pages for matching offers,\n" +
		"and sends alerts to Telegram or Discord.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(sweepCommand())
	rootCmd.AddCommand(feedScanCommand())
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app bundles what every command builds from the config file.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	catalog *catalog.Catalog
	engine  *engine.Engine

	logFile           io.Closer
	shutdownTelemetry telemetry.ShutdownFunc
}

// Close flushes telemetry and closes the log file.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdownTelemetry(ctx); err != nil {
		a.log.Warn("flushing telemetry", "error", err)
	}
	_ = a.logFile.Close()
}

func loadApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, closer := logger.NewWithFile(cfg.Logging.Level, cfg.Logging.Format, logger.FileOptions{
		Path:       cfg.Logging.File.Path,
		MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAgeDays: cfg.Logging.File.MaxAgeDays,
		Compress:   cfg.Logging.File.Compress,
	})
	slog.SetDefault(log)

	shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry, Version)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("setting up telemetry: %w", err)
	}
	if cfg.Telemetry.Enabled {
		log.Info("exporting telemetry", "endpoint", cfg.Telemetry.Endpoint, "sample_ratio", cfg.Telemetry.SampleRatio)
	}

	cat := catalog.Build(cfg, catalog.WithLogger(log))
	return &app{
		cfg:               cfg,
		log:               log,
		catalog:           cat,
		engine:            newEngine(cfg, cat, log),
		logFile:           closer,
		shutdownTelemetry: shutdown,
	}, nil
}

func newEngine(cfg *config.Config, cat *catalog.Catalog, log *slog.Logger) *engine.Engine {
	return engine.NewEngine(cat.Vendors, cat.Transport, cat.Notifier,
		engine.WithLogger(log),
		engine.WithDefaultLocations(cat.Locations),
		engine.WithFeed(cat.Feed, cat.Trackers),
		engine.WithFeedNotifier(cat.FeedNotifier),
		engine.WithPacing(engine.Pacing{
			Notify:   cfg.Pacing.Notify,
			Location: cfg.Pacing.Location,
			Entry:    cfg.Pacing.Entry,
			Item:     cfg.Pacing.Item,
			Page:     cfg.Pacing.Page,
		}),
	)
}
