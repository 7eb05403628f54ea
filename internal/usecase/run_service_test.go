package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
)

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) FetchMessageTopics(ctx context.Context, earliest, latest int64, typeIDs []int) ([]transaction.MessageTopic, error) {
	args := m.Called(ctx, earliest, latest, typeIDs)
	topics, _ := args.Get(0).([]transaction.MessageTopic)
	return topics, args.Error(1)
}

func (m *mockFeed) FetchPlayers(ctx context.Context) ([]roster.Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]roster.Player)
	return players, args.Error(1)
}

func (m *mockFeed) FetchFantasyTeams(ctx context.Context) ([]roster.FantasyTeam, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]roster.FantasyTeam)
	return teams, args.Error(1)
}

func (m *mockFeed) FetchProTeams(ctx context.Context) ([]roster.ProTeam, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]roster.ProTeam)
	return teams, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (int64, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *mockStore) Set(ctx context.Context, key string, value int64) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func newRunServiceForTest(feed *mockFeed, store *mockStore, publisher *mockPublisher, cfg RunConfig) *RunService {
	digest := NewDigestService(transaction.Default(), RenderOptions{TopicHeaders: true}, nil)
	svc := NewRunService(feed, store, publisher, digest, cfg, nil)
	svc.now = func() time.Time { return time.UnixMilli(1759276800000) }
	return svc
}

func TestRunService_Run_PublishesAndAdvancesWatermark(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{})

	const watermark = int64(1759190400000)
	const runStart = int64(1759276800000)

	refs := testRefs()
	topics := []transaction.MessageTopic{
		{Messages: []transaction.Message{
			{MessageTypeID: 178, To: numRef(1), TargetID: numRef(3900)},
		}},
	}

	store.On("Get", mock.Anything, "lastRun").Return(watermark, true, nil).Once()
	feed.On("FetchMessageTopics", mock.Anything, watermark, runStart-1, transaction.Default().TypeIDs()).
		Return(topics, nil).Once()
	feed.On("FetchPlayers", mock.Anything).Return(refs.Players, nil).Once()
	feed.On("FetchFantasyTeams", mock.Anything).Return(refs.FantasyTeams, nil).Once()
	feed.On("FetchProTeams", mock.Anything).Return(refs.ProTeams, nil).Once()
	publisher.On("Publish", mock.Anything, "AAA added Sidney Crosby, Pit C from Free Agency").
		Return(nil).Once()
	store.On("Set", mock.Anything, "lastRun", runStart).Return(nil).Once()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	feed.AssertExpectations(t)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRunService_Run_NoWatermarkSkipsScanButPersists(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{})

	store.On("Get", mock.Anything, "lastRun").Return(int64(0), false, nil).Once()
	store.On("Set", mock.Anything, "lastRun", int64(1759276800000)).Return(nil).Once()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	feed.AssertNotCalled(t, "FetchMessageTopics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestRunService_Run_OverridesBypassWatermark(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{
		EarliestOverride: 100,
		LatestOverride:   2000,
	})

	feed.On("FetchMessageTopics", mock.Anything, int64(100), int64(1999), mock.Anything).
		Return([]transaction.MessageTopic(nil), nil).Once()
	feed.On("FetchPlayers", mock.Anything).Return([]roster.Player(nil), nil).Once()
	feed.On("FetchFantasyTeams", mock.Anything).Return([]roster.FantasyTeam(nil), nil).Once()
	feed.On("FetchProTeams", mock.Anything).Return([]roster.ProTeam(nil), nil).Once()
	store.On("Set", mock.Anything, "lastRun", int64(1759276800000)).Return(nil).Once()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	feed.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestRunService_Run_EmptyDigestSkipsPublish(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{EarliestOverride: 100})

	feed.On("FetchMessageTopics", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]transaction.MessageTopic(nil), nil).Once()
	feed.On("FetchPlayers", mock.Anything).Return([]roster.Player(nil), nil).Once()
	feed.On("FetchFantasyTeams", mock.Anything).Return([]roster.FantasyTeam(nil), nil).Once()
	feed.On("FetchProTeams", mock.Anything).Return([]roster.ProTeam(nil), nil).Once()
	store.On("Set", mock.Anything, "lastRun", mock.Anything).Return(nil).Once()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRunService_Run_FetchFailureAbortsBeforeWatermark(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{EarliestOverride: 100})

	feedErr := errors.New("feed down")
	feed.On("FetchMessageTopics", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]transaction.MessageTopic(nil), feedErr).Once()
	feed.On("FetchPlayers", mock.Anything).Return([]roster.Player(nil), nil).Maybe()
	feed.On("FetchFantasyTeams", mock.Anything).Return([]roster.FantasyTeam(nil), nil).Maybe()
	feed.On("FetchProTeams", mock.Anything).Return([]roster.ProTeam(nil), nil).Maybe()

	err := svc.Run(context.Background())
	if !errors.Is(err, feedErr) {
		t.Fatalf("expected feed error, got %v", err)
	}

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRunService_Run_PublishFailurePropagates(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{EarliestOverride: 100})

	refs := testRefs()
	topics := []transaction.MessageTopic{
		{Messages: []transaction.Message{
			{MessageTypeID: 178, To: numRef(1), TargetID: numRef(3900)},
		}},
	}

	feed.On("FetchMessageTopics", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(topics, nil).Once()
	feed.On("FetchPlayers", mock.Anything).Return(refs.Players, nil).Once()
	feed.On("FetchFantasyTeams", mock.Anything).Return(refs.FantasyTeams, nil).Once()
	feed.On("FetchProTeams", mock.Anything).Return(refs.ProTeams, nil).Once()

	sinkErr := errors.New("sink rejected")
	publisher.On("Publish", mock.Anything, mock.Anything).Return(sinkErr).Once()

	err := svc.Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunService_Run_WatermarkWriteFailure(t *testing.T) {
	t.Parallel()

	feed := &mockFeed{}
	store := &mockStore{}
	publisher := &mockPublisher{}
	svc := newRunServiceForTest(feed, store, publisher, RunConfig{})

	storeErr := errors.New("state table unavailable")
	store.On("Get", mock.Anything, "lastRun").Return(int64(0), false, nil).Once()
	store.On("Set", mock.Anything, "lastRun", mock.Anything).Return(storeErr).Once()

	err := svc.Run(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
