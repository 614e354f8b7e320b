// Command tilawa is the main entry point for the Tilawa recitation analysis server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tilawa-app/tilawa/internal/config"
	"github.com/tilawa-app/tilawa/internal/engine"
	"github.com/tilawa-app/tilawa/internal/match"
	"github.com/tilawa-app/tilawa/internal/observe"
	"github.com/tilawa-app/tilawa/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "tilawa: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "tilawa: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("tilawa starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "tilawa",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	metrics := observe.DefaultMetrics()

	// ── Engine + server ───────────────────────────────────────────────────────
	srv := server.New(cfg.Server, buildEngine(cfg, metrics), buildMatcher(cfg), metrics)

	// ── Config watcher: retune thresholds without a restart ───────────────────
	watcher, err := config.NewWatcher(*configPath, func(_, updated *config.Config) {
		srv.SetEngine(buildEngine(updated, metrics))
		srv.SetMatcher(buildMatcher(updated))
		slog.Info("engine parameters retuned",
			"unrelated_threshold", updated.Engine.UnrelatedThreshold,
			"best_match_threshold", updated.Engine.BestMatchThreshold,
		)
	})
	if err != nil {
		slog.Error("failed to start config watcher", "err", err)
		return 1
	}
	defer watcher.Stop()

	slog.Info("server ready — press Ctrl+C to shut down")

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildEngine constructs an analysis engine from the config, applying only
// the options the config sets explicitly.
func buildEngine(cfg *config.Config, metrics *observe.Metrics) *engine.Engine {
	opts := []engine.Option{
		engine.WithMetrics(metrics),
		engine.WithDiffFallback(cfg.Engine.DiffFallback()),
	}
	if cfg.Engine.UnrelatedThreshold > 0 {
		opts = append(opts, engine.WithUnrelatedThreshold(cfg.Engine.UnrelatedThreshold))
	}
	return engine.New(opts...)
}

// buildMatcher constructs the verse matcher from the config.
func buildMatcher(cfg *config.Config) *match.Matcher {
	var opts []match.Option
	if cfg.Engine.BestMatchThreshold > 0 {
		opts = append(opts, match.WithThreshold(cfg.Engine.BestMatchThreshold))
	}
	return match.New(opts...)
}

// newLogger builds the process-wide slog logger at the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
