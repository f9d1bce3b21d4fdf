package circuitbreaker

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"github.com/cogstack/cogstack-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Config holds circuit breaker configuration
type Config struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state window after which counts reset
	Timeout     time.Duration // how long the breaker stays open

	// MinRequests and FailureRatio drive the default trip rule
	MinRequests  uint32
	FailureRatio float64

	// IsSuccessful decides which errors count as failures; nil counts every error
	IsSuccessful func(err error) bool
}

// DefaultConfig trips after 3 requests with at least 60% failures and probes again after 30s
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// NewCircuitBreaker builds a gobreaker breaker that logs and exports its state
func NewCircuitBreaker(cfg Config) *gobreaker.CircuitBreaker {
	minRequests, ratio := cfg.MinRequests, cfg.FailureRatio
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests || counts.Requests == 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: cfg.IsSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Execute runs fn through cb. Rejections by an open breaker wrap apperrors.ErrUnavailable.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, rejection(cb.Name(), err)
	}

	typed, ok := result.(T)
	if !ok {
		return zero, apperrors.InternalError(fmt.Sprintf("circuit breaker %q returned %T", cb.Name(), result))
	}
	return typed, nil
}

// IsOpen reports whether cb currently rejects calls
func IsOpen(cb *gobreaker.CircuitBreaker) bool {
	return cb.State() == gobreaker.StateOpen
}

func rejection(name string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return apperrors.UnavailableError(fmt.Sprintf("circuit breaker %q is open", name), err)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.UnavailableError(fmt.Sprintf("circuit breaker %q is half-open and busy", name), err)
	default:
		return err
	}
}

// stateValue is the gauge encoding: 0 closed, 1 half-open, 2 open
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
