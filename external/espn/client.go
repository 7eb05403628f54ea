package espn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/resilience"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/usecase"
)

const defaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/fhl"

var errESPNTransient = crerr.New("espn transient failure")

// ErrAuthentication means the espn_s2 cookie was rejected. Retrying
// cannot help until the credential is rotated.
var ErrAuthentication = crerr.New("espn authentication rejected")

var validate = validator.New()

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Season         int    `validate:"required,gt=0"`
	LeagueID       string `validate:"required"`
	S2Cookie       string `validate:"required"`
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is a read-only fantasy hockey API client implementing the run
// orchestrator's Feed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	season         int
	leagueID       string
	s2Cookie       string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, crerr.Wrap(err, "invalid espn client config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		season:         cfg.Season,
		leagueID:       strings.TrimSpace(cfg.LeagueID),
		s2Cookie:       strings.TrimSpace(cfg.S2Cookie),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

// FetchMessageTopics pulls transaction topics dated inside
// [earliest, latest], restricted to the given message type ids.
func (c *Client) FetchMessageTopics(ctx context.Context, earliest, latest int64, typeIDs []int) ([]transaction.MessageTopic, error) {
	filter, err := messageFilter(earliest, latest, typeIDs)
	if err != nil {
		return nil, crerr.Wrap(err, "build message filter")
	}

	path := fmt.Sprintf("/seasons/%d/segments/0/leagues/%s/communication/", c.season, c.leagueID)
	query := map[string]string{"view": "kona_league_communication"}
	headers := map[string]string{headerFantasyFilter: filter}

	var out communicationResponse
	if err := c.doJSON(ctx, path, query, headers, &out); err != nil {
		return nil, err
	}

	return out.Topics, nil
}

// FetchPlayers pulls the league-wide active player list.
func (c *Client) FetchPlayers(ctx context.Context) ([]roster.Player, error) {
	filter, err := playerFilter()
	if err != nil {
		return nil, crerr.Wrap(err, "build player filter")
	}

	path := fmt.Sprintf("/seasons/%d/players", c.season)
	query := map[string]string{
		"scoringPeriodId": "0",
		"view":            "players_wl",
	}
	headers := map[string]string{headerFantasyFilter: filter}

	var out []roster.Player
	if err := c.doJSON(ctx, path, query, headers, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// FetchFantasyTeams pulls the rosters of the configured league.
func (c *Client) FetchFantasyTeams(ctx context.Context) ([]roster.FantasyTeam, error) {
	path := fmt.Sprintf("/seasons/%d/segments/0/leagues/%s", c.season, c.leagueID)

	var out leagueResponse
	if err := c.doJSON(ctx, path, nil, nil, &out); err != nil {
		return nil, err
	}

	return out.Teams, nil
}

// FetchProTeams pulls the professional franchises for the season.
func (c *Client) FetchProTeams(ctx context.Context) ([]roster.ProTeam, error) {
	path := fmt.Sprintf("/seasons/%d", c.season)
	query := map[string]string{"view": "proTeamSchedules_wl"}

	var out seasonResponse
	if err := c.doJSON(ctx, path, query, nil, &out); err != nil {
		return nil, err
	}

	return out.Settings.ProTeams, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, headers map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: fantasy provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// Concurrent identical requests share one round trip; the filter
	// header is part of the identity because it carries the window.
	key := fullURL + "#" + headers[headerFantasyFilter]
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, headers)
		if c.circuitEnabled {
			if reqErr != nil && isTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("Cookie", "espn_s2="+c.s2Cookie)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errESPNTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errESPNTransient, readErr)
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				return nil, fmt.Errorf("%w: status=%d", ErrAuthentication, resp.StatusCode)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errESPNTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) redact(value string) string {
	if c.s2Cookie == "" {
		return value
	}
	return strings.ReplaceAll(value, c.s2Cookie, "REDACTED")
}

func isTransient(err error) bool {
	return stderrors.Is(err, errESPNTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const max = 512
	body := strings.TrimSpace(string(raw))
	if len(body) <= max {
		return body
	}
	return body[:max] + "...(truncated)"
}
