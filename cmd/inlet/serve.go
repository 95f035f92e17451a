package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattjoyce/inlet/internal/api"
	"github.com/mattjoyce/inlet/internal/config"
	"github.com/mattjoyce/inlet/internal/log"
	"github.com/mattjoyce/inlet/internal/message"
	"github.com/mattjoyce/inlet/internal/metrics"
	"github.com/mattjoyce/inlet/internal/storage"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "optional YAML config file")
	listen := fs.String("listen", "", "listen address (overrides LISTEN)")
	dbPath := fs.String("db", "", "SQLite database path (overrides DATABASE_URL)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *dbPath != "" {
		cfg.DatabaseURL = *dbPath
	}

	log.Setup(cfg.LogLevel)
	logger := log.WithComponent("inlet")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A store that fails to open is degraded, not fatal: the process serves
	// and /health/ready stays 503 until restarted with a reachable store.
	db, err := storage.Open(ctx, cfg.DatabasePath())
	if err != nil {
		logger.Error("storage init failed", "path", cfg.DatabasePath(), "error", err)
		db = nil
	}
	if db != nil {
		defer db.Close()
	}

	store := message.NewStore(db)
	reg := metrics.NewRegistry()

	srv := api.New(api.Config{
		Listen:        cfg.Listen,
		WebhookSecret: cfg.WebhookSecret,
		MaxPageSize:   cfg.MaxPageSize,
	}, store, reg, logger)

	if err := srv.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("server exited", "error", err)
		return 1
	}
	return 0
}
