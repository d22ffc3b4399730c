package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
	"github.com/riskibarqy/youth-cup/internal/platform/resilience"
	"github.com/riskibarqy/youth-cup/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL        string
	Token          string
	WebhookURL     string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// QStashPublisher forwards tournament events to an external webhook through QStash,
// which owns delivery retries.
type QStashPublisher struct {
	client     *http.Client
	baseURL    string
	token      string
	webhookURL string
	retries    int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) (*QStashPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	webhookURL, err := validateHTTPBaseURL(cfg.WebhookURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid QSTASH_WEBHOOK_URL")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, crerr.New("QSTASH_TOKEN is required")
	}

	p := &QStashPublisher{
		client:     &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		webhookURL: webhookURL,
		retries:    cfg.Retries,
		logger:     logger,
	}
	p.breaker = resilience.NewCircuitBreaker(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		logger.Warn("qstash circuit breaker state changed", "from", from, "to", to)
	})
	return p, nil
}

// Publish implements usecase.EventPublisher.
func (p *QStashPublisher) Publish(ctx context.Context, event usecase.Event) error {
	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrapf(err, "marshal webhook event type=%s", event.Type)
	}

	publishURL := p.baseURL + "/v2/publish/" + p.webhookURL
	dedupID := deduplicationID(event)
	curlPreview := buildQStashCurlPreview(publishURL, p.retries, dedupID, truncateForLog(string(body), 4096))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.publish_url", publishURL),
			attribute.String("qstash.event_type", event.Type),
			attribute.String("qstash.request_curl_preview", curlPreview),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "event_type", event.Type, "curl_preview", curlPreview)

	err = p.breaker.Execute(func() error {
		return p.send(ctx, publishURL, dedupID, body)
	}, isQStashCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return fmt.Errorf("%w: qstash: %w", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	p.logger.InfoContext(ctx, "qstash event published", "event_type", event.Type, "deduplication_id", dedupID)
	return nil
}

func (p *QStashPublisher) send(ctx context.Context, publishURL, dedupID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	req.Header.Set("Upstash-Deduplication-Id", dedupID)
	if p.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(p.retries))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: publish qstash event publish_url=%s: %v", errQStashTransient, publishURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := crerr.Newf("publish qstash event status=%d publish_url=%s body=%s", resp.StatusCode, publishURL, strings.TrimSpace(string(raw)))
	if isQStashRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: %w", errQStashTransient, callErr)
	}
	return callErr
}

func deduplicationID(event usecase.Event) string {
	return event.Type + "-" + strconv.FormatInt(event.OccurredAt.UnixNano(), 10)
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildQStashCurlPreview(publishURL string, retries int, dedupID, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(publishURL))
	appendHeader("Authorization: Bearer ***")
	appendHeader("Content-Type: application/json")
	appendHeader("Upstash-Deduplication-Id: " + dedupID)
	if retries > 0 {
		appendHeader("Upstash-Retries: " + strconv.Itoa(retries))
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isQStashCircuitFailure(err error) bool {
	return stderrors.Is(err, errQStashTransient)
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
