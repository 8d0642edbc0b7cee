package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// Breaker is a Provider that stops calling the wrapped one after it keeps
// failing. While open, calls fail with ErrCircuitOpen, which Client does not retry.
type Breaker struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

func NewBreaker(provider Provider, settings BreakerSettings) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Default().Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up says nothing about provider health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{
		provider: provider,
		cb:       cb,
	}
}

func (b *Breaker) Translate(ctx context.Context, text string) (string, error) {
	response, err := b.cb.Execute(func() (any, error) {
		return b.provider.Translate(ctx, text)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	if err != nil {
		return "", err
	}
	return response.(string), nil
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}
