package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/app"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/config"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/observability"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, cleanup, err := app.NewRunner(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	runErr := runner.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cleanup(shutdownCtx); err != nil {
		logger.Error("cleanup failed", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof server", "error", err)
	}
	if err := stopProfiler(); err != nil {
		logger.Error("stop profiler", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("shutdown tracing", "error", err)
	}

	if runErr != nil {
		logger.Error("notifier run failed", "error", runErr)
		os.Exit(1)
	}

	logger.Info("notifier stopped")
}
