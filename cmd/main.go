package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedsnap/internal/config"
	"feedsnap/internal/feed"
	"feedsnap/internal/snapshot"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.LoadConfig()

	updater := feed.NewUpdater(cfg, log)

	snap, err := updater.BuildSnapshot(ctx)
	if err != nil {
		// The previous snapshot, if any, stays on disk so the site keeps
		// serving stale but valid data through an upstream outage.
		log.ErrorContext(ctx, "Failed to update feed snapshot",
			"error", err,
			"outputPath", cfg.OutputPath)

		os.Exit(1)
	}

	if err := snapshot.Write(cfg.OutputPath, snap); err != nil {
		log.ErrorContext(ctx, "Failed to write feed snapshot",
			"error", err,
			"outputPath", cfg.OutputPath)

		os.Exit(1)
	}

	log.InfoContext(ctx, "Feed snapshot is updated",
		"outputPath", cfg.OutputPath,
		"source", snap.Source,
		"postCount", len(snap.Posts),
		"elapsedSeconds", time.Since(start).Seconds())
}
