package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/platform/resilience"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

type WebhookNotifierConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
	Breaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts winner announcements to an external webhook. The
// scoring flow treats delivery as best effort, so failures here surface as
// errors but never block settlement.
type WebhookNotifier struct {
	client  *http.Client
	url     string
	token   string
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewWebhookNotifier(cfg WebhookNotifierConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	endpoint, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid webhook url")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)

	return &WebhookNotifier{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		url:     endpoint,
		token:   strings.TrimSpace(cfg.Token),
		breaker: resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		logger:  logger,
	}, nil
}

func (n *WebhookNotifier) NotifyWinner(ctx context.Context, notification usecase.WinnerNotification) error {
	if err := n.breaker.Allow(); err != nil {
		return errors.Wrap(err, "winner webhook circuit open")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	body, err := sonic.Marshal(notification)
	if err != nil {
		return errors.Wrap(err, "marshal winner notification")
	}
	if _, err := buf.Write(body); err != nil {
		return errors.Wrap(err, "buffer winner notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(buf.B))
	if err != nil {
		return errors.Wrap(err, "create winner webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.breaker.RecordFailure()
		return errors.Wrap(err, "post winner webhook")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		n.breaker.RecordFailure()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf("winner webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	n.breaker.RecordSuccess()
	n.logger.InfoContext(ctx, "winner_notification_sent",
		"board_id", notification.BoardID,
		"game_id", notification.GameID,
		"square_id", notification.SquareID,
		"payout_cents", notification.PayoutCents,
	)
	return nil
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", candidate, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("%q has empty host", candidate)
	}

	return candidate, nil
}
