package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

// lastRunKey is the watermark entry recording the start of the last
// completed run, in ms since epoch.
const lastRunKey = "lastRun"

// Feed provides the league data a run needs.
type Feed interface {
	FetchMessageTopics(ctx context.Context, earliest, latest int64, typeIDs []int) ([]transaction.MessageTopic, error)
	FetchPlayers(ctx context.Context) ([]roster.Player, error)
	FetchFantasyTeams(ctx context.Context) ([]roster.FantasyTeam, error)
	FetchProTeams(ctx context.Context) ([]roster.ProTeam, error)
}

// WatermarkStore persists run progress between executions.
type WatermarkStore interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, value int64) error
}

// Publisher delivers a rendered digest to the notification sinks.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

// RunConfig carries explicit window overrides, both in ms since epoch.
// Zero means "not set".
type RunConfig struct {
	EarliestOverride int64
	LatestOverride   int64
}

// RunService executes one notification cycle: resolve the window, pull
// the feed, render the digest, publish, advance the watermark.
type RunService struct {
	feed      Feed
	store     WatermarkStore
	publisher Publisher
	digest    *DigestService
	cfg       RunConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewRunService(
	feed Feed,
	store WatermarkStore,
	publisher Publisher,
	digest *DigestService,
	cfg RunConfig,
	logger *logging.Logger,
) *RunService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RunService{
		feed:      feed,
		store:     store,
		publisher: publisher,
		digest:    digest,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes the window [earliest, latest]. The watermark advances
// to the run start even when no window could be resolved, so the next
// run has a lower bound. Latest excludes the run start itself to avoid
// double-reporting messages landing on the boundary.
func (s *RunService) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "RunService.Run")
	defer span.End()

	startedAt := s.now().UnixMilli()

	earliest := s.cfg.EarliestOverride
	if earliest == 0 {
		value, ok, err := s.store.Get(ctx, lastRunKey)
		if err != nil {
			return fmt.Errorf("read watermark: %w", err)
		}
		if ok {
			earliest = value
		}
	}

	latest := s.cfg.LatestOverride
	if latest == 0 {
		latest = startedAt
	}
	latest--

	if earliest == 0 {
		s.logger.WarnContext(ctx, "no watermark and no earliest override, skipping transaction scan")
	} else if err := s.scan(ctx, earliest, latest); err != nil {
		return err
	}

	if err := s.store.Set(ctx, lastRunKey, startedAt); err != nil {
		return fmt.Errorf("persist watermark: %w", err)
	}

	return nil
}

func (s *RunService) scan(ctx context.Context, earliest, latest int64) error {
	s.logger.InfoContext(ctx, "scanning transactions", "earliest", earliest, "latest", latest)

	var (
		topics       []transaction.MessageTopic
		players      []roster.Player
		fantasyTeams []roster.FantasyTeam
		proTeams     []roster.ProTeam
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		var err error
		topics, err = s.feed.FetchMessageTopics(ctx, earliest, latest, s.digest.TypeIDs())
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		players, err = s.feed.FetchPlayers(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		fantasyTeams, err = s.feed.FetchFantasyTeams(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		proTeams, err = s.feed.FetchProTeams(ctx)
		return err
	})
	if err := p.Wait(); err != nil {
		return fmt.Errorf("fetch league data: %w", err)
	}

	digest, err := s.digest.RenderDigest(topics, ReferenceData{
		Players:      players,
		FantasyTeams: fantasyTeams,
		ProTeams:     proTeams,
	})
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	if digest == "" {
		s.logger.InfoContext(ctx, "no notifications to send")
		return nil
	}

	s.logger.InfoContext(ctx, "message to be sent via notification streams", "message", digest)
	if err := s.publisher.Publish(ctx, digest); err != nil {
		return fmt.Errorf("publish digest: %w", err)
	}

	return nil
}
