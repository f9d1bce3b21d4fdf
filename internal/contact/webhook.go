package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/pkg/circuitbreaker"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/cogstack/cogstack-api/pkg/httpclient"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	"github.com/cogstack/cogstack-api/pkg/retry"
	"github.com/cogstack/cogstack-api/pkg/tracing"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	// WebhookSecretHeader carries the shared secret when one is configured
	WebhookSecretHeader = "X-Webhook-Secret"
	// IdempotencyKeyHeader is the same on every retry of one submission
	IdempotencyKeyHeader = "Idempotency-Key"

	maxErrorBody = 512
)

// webhookPayload is the JSON body posted to the webhook
type webhookPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// WebhookTransport posts submissions as JSON to an operator-configured URL
type WebhookTransport struct {
	url     string
	secret  string
	client  httpclient.Client
	retry   retry.Config
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// WebhookOption configures a WebhookTransport
type WebhookOption func(*WebhookTransport)

// WithWebhookSecret sets the value sent in X-Webhook-Secret
func WithWebhookSecret(secret string) WebhookOption {
	return func(t *WebhookTransport) {
		t.secret = secret
	}
}

// WithRetryConfig overrides the retry policy
func WithRetryConfig(cfg retry.Config) WebhookOption {
	return func(t *WebhookTransport) {
		t.retry = cfg
	}
}

// WithBreaker replaces the default circuit breaker
func WithBreaker(cb *gobreaker.CircuitBreaker) WebhookOption {
	return func(t *WebhookTransport) {
		t.breaker = cb
	}
}

// NewWebhookTransport creates a transport posting to url through client
func NewWebhookTransport(url string, client httpclient.Client, opts ...WebhookOption) *WebhookTransport {
	t := &WebhookTransport{
		url:    url,
		client: client,
		retry:  retry.WebhookConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.breaker == nil {
		cfg := circuitbreaker.DefaultConfig("contact-webhook")
		cfg.IsSuccessful = breakerSuccess
		t.breaker = circuitbreaker.NewCircuitBreaker(cfg)
	}
	return t
}

// Name identifies the transport in receipts and metrics
func (t *WebhookTransport) Name() string { return "webhook" }

// Available is false while the breaker is open
func (t *WebhookTransport) Available() bool {
	return !circuitbreaker.IsOpen(t.breaker)
}

// Send posts the submission, retrying transient failures.
// The error wraps *DeliveryError for non-2xx answers and ErrTransportUnavailable while the breaker is open.
func (t *WebhookTransport) Send(ctx context.Context, submission models.ContactSubmission) (*models.DeliveryReceipt, error) {
	ctx, span := tracing.StartSpan(ctx, "contact.webhook.send",
		attribute.String("contact.transport", t.Name()))
	defer span.End()

	start := time.Now()
	payload := webhookPayload{
		ID:          uuid.NewString(),
		Name:        submission.Name,
		Email:       submission.Email,
		Company:     submission.Company,
		Message:     submission.Message,
		SubmittedAt: t.now().UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	err = retry.Do(ctx, t.retry, "contact_webhook", func() error {
		_, err := circuitbreaker.Execute(t.breaker, func() (struct{}, error) {
			return struct{}{}, t.post(ctx, payload.ID, body)
		})
		if errors.Is(err, apperrors.ErrUnavailable) {
			return retry.Permanent(fmt.Errorf("%w: %w", ErrTransportUnavailable, err))
		}
		return err
	})

	duration := metrics.MeasureDuration(start)
	status := sendStatus(ctx, err)
	metrics.ContactTransportDuration.WithLabelValues(t.Name(), status).Observe(duration)
	logger.LogAPICall("contact_webhook", "send", status, duration,
		zap.String("submission_id", payload.ID))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("contact.receipt_id", payload.ID))
	return &models.DeliveryReceipt{
		ID:          payload.ID,
		Transport:   t.Name(),
		DeliveredAt: t.now().UTC(),
	}, nil
}

func (t *WebhookTransport) post(ctx context.Context, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to build webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, id)
	if t.secret != "" {
		req.Header.Set(WebhookSecretHeader, t.secret)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	derr := &DeliveryError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	if !derr.Temporary() {
		return retry.Permanent(derr)
	}
	return derr
}

// breakerSuccess keeps client mistakes and cancellations from tripping the breaker
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var derr *DeliveryError
	return errors.As(err, &derr) && !derr.Temporary()
}

func sendStatus(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(ctx.Err(), context.Canceled):
		return "cancelled"
	case errors.Is(err, ErrTransportUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
