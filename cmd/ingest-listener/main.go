package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"woingest/internal/config"
	"woingest/internal/listener"
	"woingest/internal/logger"
	"woingest/internal/pipeline"
	"woingest/internal/sheet"
	"woingest/internal/storage"
	"woingest/internal/upload"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Validate())
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	var journal listener.Journal
	if cfg.DBPath != "" {
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		journal = db
	}

	processor := pipeline.NewProcessor(cfg, sheet.XLSXDecoder{}, upload.NewClient(cfg))
	svc := listener.NewService(cfg, processor, journal)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Named("main").Info().Str("mask", cfg.PathMask).Str("url", cfg.BaseURL).Msg("ingest listener started")
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
