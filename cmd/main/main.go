package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/catalog/internal/config"
	"storefront/catalog/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting catalog builder...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	configureLogging(cfg.Log)
	log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	report, err := app.Run(ctx)
	app.Close()
	if err != nil {
		log.Fatalf("Catalog build failed: %v", err)
	}

	if report.HasErrors() {
		log.Errorf("Catalog build finished with %d errors", report.Counts.Errors)
		os.Exit(1)
	}

	log.Info("Catalog build finished successfully")
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
