package app

import (
	"context"
	"time"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/cache"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/usecase"
)

const (
	cacheKeyPlayers      = "reference:players"
	cacheKeyFantasyTeams = "reference:fantasy-teams"
	cacheKeyProTeams     = "reference:pro-teams"
)

// cachedFeed caches the reference lookups between poll cycles. Message
// topics are window-scoped and always pass through.
type cachedFeed struct {
	next  usecase.Feed
	store *cache.Store
}

func newCachedFeed(next usecase.Feed, ttl time.Duration) *cachedFeed {
	return &cachedFeed{
		next:  next,
		store: cache.NewStore(ttl),
	}
}

func (f *cachedFeed) FetchMessageTopics(ctx context.Context, earliest, latest int64, typeIDs []int) ([]transaction.MessageTopic, error) {
	return f.next.FetchMessageTopics(ctx, earliest, latest, typeIDs)
}

func (f *cachedFeed) FetchPlayers(ctx context.Context) ([]roster.Player, error) {
	value, err := f.store.GetOrLoad(ctx, cacheKeyPlayers, func(ctx context.Context) (any, error) {
		return f.next.FetchPlayers(ctx)
	})
	if err != nil {
		return nil, err
	}
	players, _ := value.([]roster.Player)
	return players, nil
}

func (f *cachedFeed) FetchFantasyTeams(ctx context.Context) ([]roster.FantasyTeam, error) {
	value, err := f.store.GetOrLoad(ctx, cacheKeyFantasyTeams, func(ctx context.Context) (any, error) {
		return f.next.FetchFantasyTeams(ctx)
	})
	if err != nil {
		return nil, err
	}
	teams, _ := value.([]roster.FantasyTeam)
	return teams, nil
}

func (f *cachedFeed) FetchProTeams(ctx context.Context) ([]roster.ProTeam, error) {
	value, err := f.store.GetOrLoad(ctx, cacheKeyProTeams, func(ctx context.Context) (any, error) {
		return f.next.FetchProTeams(ctx)
	})
	if err != nil {
		return nil, err
	}
	teams, _ := value.([]roster.ProTeam)
	return teams, nil
}
