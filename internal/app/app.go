package app

import (
	"context"
	"time"

	"github.com/puckwatch/fantasy-hockey-notifier/external/espn"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/config"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/infrastructure/watermark"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/notify"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/resilience"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/usecase"
)

// Runner drives the notification cycle: once when no poll interval is
// configured, otherwise on a fixed schedule until the context ends.
type Runner struct {
	svc      *usecase.RunService
	interval time.Duration
	logger   *logging.Logger
}

func NewRunner(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runner, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	taxonomy := transaction.Default()
	if !cfg.DraftPickTradesEnabled {
		taxonomy = transaction.Legacy()
	}

	digest := usecase.NewDigestService(taxonomy, usecase.RenderOptions{
		PositionSuffixMode: usecase.PositionSuffixMode(cfg.PositionSuffixMode),
		TopicHeaders:       cfg.TopicHeadersEnabled,
	}, logger)

	client, err := espn.NewClient(espn.ClientConfig{
		BaseURL:    cfg.ESPNBaseURL,
		Season:     cfg.Season,
		LeagueID:   cfg.LeagueID,
		S2Cookie:   cfg.S2Cookie,
		Timeout:    cfg.ESPNTimeout,
		MaxRetries: cfg.ESPNMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	var feed usecase.Feed = client
	if cfg.CacheEnabled {
		feed = newCachedFeed(client, cfg.CacheTTL)
	}

	cleanup := func(context.Context) error { return nil }

	var store usecase.WatermarkStore
	if cfg.DBURL != "" {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store = watermark.NewPostgresStore(db)
		cleanup = func(context.Context) error { return db.Close() }
		logger.Info("watermark store ready", "backend", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		store = watermark.NewFileStore(cfg.LastRunFilePath)
		logger.Info("watermark store ready", "backend", "file", "path", cfg.LastRunFilePath)
	}

	sinks := []notify.Sink{notify.NewLogSink(logger)}
	if cfg.DiscordWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(notify.WebhookConfig{
			URL:     cfg.DiscordWebhookURL,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger))
	}
	dispatcher := notify.NewDispatcher(sinks, cfg.NotifyMaxWorkers, logger)

	runSvc := usecase.NewRunService(feed, store, dispatcher, digest, usecase.RunConfig{
		EarliestOverride: cfg.EarliestDate,
		LatestOverride:   cfg.LatestDate,
	}, logger)

	return &Runner{
		svc:      runSvc,
		interval: cfg.PollInterval,
		logger:   logger,
	}, cleanup, nil
}

// Start blocks until the context is cancelled or, in one-shot mode, the
// single run finishes.
func (r *Runner) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return r.svc.Run(ctx)
	}

	if err := r.svc.Run(ctx); err != nil {
		r.logger.ErrorContext(ctx, "notification cycle failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.svc.Run(ctx); err != nil {
				r.logger.ErrorContext(ctx, "notification cycle failed", "error", err)
			}
		}
	}
}
