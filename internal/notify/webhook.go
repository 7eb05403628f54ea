package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

// webhookPayload is the Discord-compatible body shape.
type webhookPayload struct {
	Content string `json:"content"`
}

type WebhookConfig struct {
	URL            string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookSink posts the digest as JSON to a chat webhook.
type WebhookSink struct {
	client         *fasthttp.Client
	url            string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookSink(cfg WebhookConfig, logger *logging.Logger) *WebhookSink {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookSink{
		client:         &fasthttp.Client{},
		url:            strings.TrimSpace(cfg.URL),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (s *WebhookSink) Name() string {
	return "webhook"
}

func (s *WebhookSink) Publish(ctx context.Context, message string) error {
	if s.circuitEnabled {
		if err := s.breaker.Allow(); err != nil {
			s.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", s.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		s.recordCircuitResult(nil)
		return err
	}

	body, err := sonic.Marshal(webhookPayload{Content: message})
	if err != nil {
		s.recordCircuitResult(nil)
		return crerr.Wrap(err, "marshal webhook payload")
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		callErr := fmt.Errorf("%w: send webhook request: %v", errWebhookTransient, err)
		s.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		respBody := strings.TrimSpace(string(resp.Body()))
		if len(respBody) > 512 {
			respBody = respBody[:512] + "...(truncated)"
		}
		var callErr error
		if isRetryableWebhookStatus(status) {
			callErr = fmt.Errorf("%w: webhook status=%d body=%s", errWebhookTransient, status, respBody)
		} else {
			callErr = fmt.Errorf("webhook status=%d body=%s", status, respBody)
		}
		s.recordCircuitResult(callErr)
		return callErr
	}

	s.recordCircuitResult(nil)
	return nil
}

func (s *WebhookSink) recordCircuitResult(err error) {
	if !s.circuitEnabled || s.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errWebhookTransient) {
		s.breaker.RecordFailure()
		return
	}
	s.breaker.RecordSuccess()
}

func isRetryableWebhookStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
