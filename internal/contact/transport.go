package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport delivers a validated submission somewhere and returns proof of delivery
type Transport interface {
	Send(ctx context.Context, submission models.ContactSubmission) (*models.DeliveryReceipt, error)
}

// TransportFunc adapts a function to the Transport interface
type TransportFunc func(ctx context.Context, submission models.ContactSubmission) (*models.DeliveryReceipt, error)

// Send calls f
func (f TransportFunc) Send(ctx context.Context, submission models.ContactSubmission) (*models.DeliveryReceipt, error) {
	return f(ctx, submission)
}

// Available reports whether t is currently willing to send.
// Transports without an Available method are always available.
func Available(t Transport) bool {
	if a, ok := t.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

// ErrTransportUnavailable is returned when a transport refuses to try, e.g. with its breaker open
var ErrTransportUnavailable = fmt.Errorf("contact transport unavailable: %w", apperrors.ErrUnavailable)

// DeliveryError is a non-2xx answer from a remote contact endpoint
type DeliveryError struct {
	StatusCode int
	Body       string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("contact endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("contact endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the same request may succeed later
func (e *DeliveryError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

const defaultSimulatedDelay = time.Second

// SimulatedTransport pretends to deliver after a fixed delay and always succeeds
type SimulatedTransport struct {
	delay time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewSimulatedTransport creates a SimulatedTransport. A negative delay uses the 1s default.
func NewSimulatedTransport(delay time.Duration, log *zap.Logger) *SimulatedTransport {
	if delay < 0 {
		delay = defaultSimulatedDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SimulatedTransport{delay: delay, log: log, now: time.Now}
}

// Name identifies the transport in receipts and metrics
func (t *SimulatedTransport) Name() string { return "simulated" }

// Send waits for the configured delay, or returns ctx.Err() if ctx ends first
func (t *SimulatedTransport) Send(ctx context.Context, submission models.ContactSubmission) (*models.DeliveryReceipt, error) {
	start := time.Now()

	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			metrics.ContactTransportDuration.WithLabelValues(t.Name(), "cancelled").Observe(metrics.MeasureDuration(start))
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	receipt := &models.DeliveryReceipt{
		ID:          uuid.NewString(),
		Transport:   t.Name(),
		DeliveredAt: t.now().UTC(),
	}

	t.log.Info("Contact form submission",
		zap.String("receipt_id", receipt.ID),
		zap.String("name", submission.Name),
		zap.String("email", submission.Email),
		zap.String("company", submission.Company),
		zap.Int("message_length", len(submission.Message)))

	metrics.ContactTransportDuration.WithLabelValues(t.Name(), "success").Observe(metrics.MeasureDuration(start))
	return receipt, nil
}
