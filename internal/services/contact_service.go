package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cogstack/cogstack-api/config"
	"github.com/cogstack/cogstack-api/internal/cache"
	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/cogstack/cogstack-api/pkg/httpclient"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	"github.com/cogstack/cogstack-api/pkg/trigger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCaptchaFailed is returned when the captcha token is rejected
var ErrCaptchaFailed = apperrors.InvalidInputError("recaptchaToken", "captcha verification failed")

// CaptchaVerifier checks a client captcha token
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

// ContactService handles contact form submissions
type ContactService struct {
	transport  contact.Transport
	dedupe     *cache.SubmissionCache
	captcha    CaptchaVerifier
	httpClient httpclient.Client
	config     *config.Config
	inflight   singleflight.Group
}

// NewContactService creates a new contact service instance
func NewContactService(
	transport contact.Transport,
	dedupe *cache.SubmissionCache,
	captcha CaptchaVerifier,
	httpClient httpclient.Client,
	cfg *config.Config,
) *ContactService {
	return &ContactService{
		transport:  transport,
		dedupe:     dedupe,
		captcha:    captcha,
		httpClient: httpClient,
		config:     cfg,
	}
}

// ValidateContactForm runs the validation engine for live feedback.
// With field set only that field is checked.
func (s *ContactService) ValidateContactForm(_ context.Context, sub models.ContactSubmission, field string) (*models.ValidateResponse, error) {
	sub = contact.Normalize(sub)

	if field == "" {
		result := contact.Validate(sub)
		return &models.ValidateResponse{Valid: result.Valid(), Errors: result}, nil
	}

	fe, invalid, err := contact.ValidateField(sub, field)
	if err != nil {
		return nil, err
	}
	result := models.ValidationResult{}
	if invalid {
		result[field] = fe
	}
	return &models.ValidateResponse{Valid: !invalid, Errors: result}, nil
}

// SubmitContactForm validates, verifies the captcha and delivers the submission.
//
// Validation failures and transport failures are reported in the response, not as errors.
// The returned error is ErrCaptchaFailed or the context error when the caller went away.
func (s *ContactService) SubmitContactForm(ctx context.Context, req *models.ContactRequest) (*models.ContactResponse, error) {
	sub := contact.Normalize(req.ContactSubmission)

	if result := contact.Validate(sub); !result.Valid() {
		for field, fe := range result {
			metrics.ContactValidationErrors.WithLabelValues(field, fe.Code).Inc()
		}
		metrics.ContactFormSubmissions.WithLabelValues("invalid").Inc()
		return &models.ContactResponse{
			Success: false,
			Errors:  result,
		}, nil
	}

	if err := s.captcha.Verify(ctx, req.RecaptchaToken); err != nil {
		metrics.ContactFormSubmissions.WithLabelValues("captcha_failed").Inc()
		logger.Warn("ReCAPTCHA verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCaptchaFailed, err)
	}

	return s.deliverOnce(ctx, sub)
}

// deliverOnce joins identical submissions that are in flight at the same time,
// so only one of them reaches the transport. Callers that joined another
// caller's delivery get its outcome marked as a duplicate.
func (s *ContactService) deliverOnce(ctx context.Context, sub models.ContactSubmission) (*models.ContactResponse, error) {
	key := cache.Fingerprint(sub)
	for {
		leader := false
		ch := s.inflight.DoChan(key, func() (interface{}, error) {
			leader = true
			return s.deliver(ctx, sub)
		})

		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if leader {
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Val.(*models.ContactResponse), nil
		}

		if res.Err != nil {
			// The leading request went away; deliver on our own context
			if ctx.Err() == nil && isContextError(res.Err) {
				continue
			}
			return nil, res.Err
		}

		joined := *res.Val.(*models.ContactResponse)
		if joined.Success {
			joined.Duplicate = true
			metrics.ContactFormSubmissions.WithLabelValues("duplicate").Inc()
		}
		return &joined, nil
	}
}

// deliver runs one submission through a fresh controller
func (s *ContactService) deliver(ctx context.Context, sub models.ContactSubmission) (*models.ContactResponse, error) {
	if receipt, found := s.dedupe.Get(sub); found {
		metrics.ContactFormSubmissions.WithLabelValues("duplicate").Inc()
		return &models.ContactResponse{
			Success:   true,
			State:     contact.StateSucceeded.String(),
			Receipt:   receipt,
			Duplicate: true,
		}, nil
	}

	controller := contact.NewController(s.transport,
		contact.WithLogger(logger.With(zap.String("component", "contact_controller"))),
		contact.WithObserver(recordTransition))

	if err := controller.Submit(ctx, sub); err != nil {
		// A fresh controller is never in flight; treat as a bug
		return nil, fmt.Errorf("failed to submit contact form: %w", err)
	}

	snap := controller.Snapshot()
	switch snap.State {
	case contact.StateSucceeded:
		s.dedupe.Put(sub, snap.Receipt)
		metrics.ContactFormSubmissions.WithLabelValues("success").Inc()
		logger.Info("Contact form delivered",
			zap.String("receipt_id", snap.Receipt.ID),
			zap.String("transport", snap.Receipt.Transport))

		// Trigger contact submitted webhook (non-blocking)
		trigger.CallAsync(s.config.EventTriggers.ContactSubmittedTriggerURL, snap.Receipt.ID, s.httpClient)

		return &models.ContactResponse{
			Success: true,
			State:   snap.State.String(),
			Receipt: snap.Receipt,
		}, nil

	case contact.StateFailed:
		metrics.ContactFormSubmissions.WithLabelValues("failed").Inc()
		logger.Error("Failed to deliver contact form", zap.Error(snap.Cause))
		return &models.ContactResponse{
			Success: false,
			State:   snap.State.String(),
			Error:   snap.Failure,
		}, nil

	default:
		metrics.ContactFormSubmissions.WithLabelValues("cancelled").Inc()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, apperrors.InternalError("contact submission ended in state " + snap.State.String())
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// recordTransition counts every controller transition
func recordTransition(snap contact.Snapshot) {
	metrics.ContactStateTransitions.WithLabelValues(snap.Previous.String(), snap.State.String()).Inc()
}
