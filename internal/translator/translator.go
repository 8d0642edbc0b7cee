// Package translator calls a machine-translation provider for the part of a
// title the lexicons could not rewrite.
package translator

import (
	"context"
	"errors"
)

//go:generate mockgen -source=translator.go -destination=../mocks/translator/mock_provider.go -package=mock_translator

// Provider translates text with a third-party service. Implementations wrap
// ErrRateLimited or ErrTransient to request a retry; any other error is final.
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
}

var (
	ErrRateLimited = errors.New("provider rate limited")
	ErrTransient   = errors.New("provider temporarily unavailable")
	ErrCircuitOpen = errors.New("provider circuit open")
)

// Reason tells why a Result carries the untranslated input.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonRateLimited Reason = "rate_limited"
	ReasonTransient   Reason = "transient"
	ReasonUnexpected  Reason = "unexpected"
	ReasonCanceled    Reason = "canceled"
	ReasonEmpty       Reason = "empty"
	ReasonDisabled    Reason = "disabled"
)

// Result is the provider output, or the input text plus the degradation reason.
type Result struct {
	Text     string
	Reason   Reason
	Attempts int
}

func (r Result) Degraded() bool {
	return r.Reason != ReasonNone
}

// ReasonOf classifies a provider error.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, ErrTransient):
		return ReasonTransient
	default:
		return ReasonUnexpected
	}
}

func isRetryable(err error) bool {
	switch ReasonOf(err) {
	case ReasonRateLimited, ReasonTransient:
		return true
	}
	return false
}
