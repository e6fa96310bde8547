package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/s-martin/shinysdr/internal/config"
	"github.com/s-martin/shinysdr/internal/console"
	"github.com/s-martin/shinysdr/internal/database"
	"github.com/s-martin/shinysdr/internal/flightradar24"
	"github.com/s-martin/shinysdr/internal/maplayer"
	"github.com/s-martin/shinysdr/internal/models"
	"github.com/s-martin/shinysdr/internal/scheduler"
	"github.com/s-martin/shinysdr/internal/server"
	"github.com/s-martin/shinysdr/internal/tasks"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("SHINYSDR_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// Basic logger just for this error; the real one needs the config
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	bounds, err := cfg.ParsedBounds()
	if err != nil {
		slog.Error("Invalid feed bounds", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry core and plugin bootstrap. Plugins register their widgets
	// and layer factories before the registries are handed to the console.
	index := telemetry.NewIndex()
	widgets := console.NewRegistry()
	layers := maplayer.NewRegistry()
	flightradar24.Register(widgets, layers)

	engine := maplayer.NewEngine(index)
	layers.Init(engine)

	panel := console.NewPanel(widgets, index, flightradar24.IAircraft)
	hub := server.NewHub()
	refresher := server.NewRefresher(engine, panel, hub)
	go refresher.Run(ctx)

	// Feed ingestion: poll task feeds the index and the sighting collector.
	sightingChan := make(chan *models.Sighting, 1000)
	client := flightradar24.NewClient(
		cfg.Feed.URL,
		bounds,
		time.Duration(cfg.Feed.PollIntervalSecs)*time.Second,
		index,
		sightingChan,
	)

	collector := tasks.NewSightingCollectorWithConfig(
		db.SightingRepository(),
		sightingChan,
		cfg.BatchSize,
		time.Duration(cfg.BatchTimeout)*time.Second,
	)
	go func() {
		if err := collector.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Sighting collector stopped", "error", err)
		}
	}()

	sched := scheduler.New(ctx)
	sched.AddTask(client)
	sched.AddTask(tasks.NewExpirySweep(index, 15*time.Second))
	sched.Start()

	srv := server.New(cfg.ListenAddr, hub, db.SightingRepository())
	go func() {
		slog.Info("Console server listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Info("Received interrupt signal, shutting down...")
	case <-ctx.Done():
	}

	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down server", "error", err)
	}

	slog.Info("Shutdown complete")
}
