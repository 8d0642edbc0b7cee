package translator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/tiksanauto/cartitle/internal/metrics"
)

const (
	DefaultMaxAttempts    = 3
	DefaultRetryDelayBase = time.Second
)

type ClientOptions struct {
	MaxAttempts    uint
	RetryDelayBase time.Duration
	Metrics        *metrics.Metrics
}

// Client is the rate-limited, retrying front of a Provider. It never returns
// an error: on failure the Result carries the input text and a Reason.
type Client struct {
	provider    Provider
	throttle    *Throttle
	maxAttempts uint
	delayBase   time.Duration
	metrics     *metrics.Metrics
}

func NewClient(provider Provider, throttle *Throttle, options ClientOptions) *Client {
	if options.MaxAttempts == 0 {
		options.MaxAttempts = DefaultMaxAttempts
	}
	if options.RetryDelayBase < 0 {
		options.RetryDelayBase = 0
	}
	return &Client{
		provider:    provider,
		throttle:    throttle,
		maxAttempts: options.MaxAttempts,
		delayBase:   options.RetryDelayBase,
		metrics:     options.Metrics,
	}
}

func (client *Client) Translate(ctx context.Context, text string) Result {
	var translated string
	attempts := 0

	err := retry.Do(
		func() error {
			attempts++
			if err := client.throttle.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			response, err := client.provider.Translate(ctx, text)
			client.metrics.ProviderCall(string(outcomeOf(err)))
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			translated = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(client.delay),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("Translation attempt failed",
				"attempt", n+1,
				"maxAttempts", client.maxAttempts,
				"reason", ReasonOf(err),
				"error", err)
		}),
	)
	if err != nil {
		reason := ReasonOf(err)
		slog.Default().Warn("Translation degraded to substitution only",
			"reason", reason,
			"attempts", attempts,
			"error", err)
		return Result{Text: text, Reason: reason, Attempts: attempts}
	}

	if strings.TrimSpace(translated) == "" {
		return Result{Text: text, Reason: ReasonEmpty, Attempts: attempts}
	}
	return Result{Text: translated, Attempts: attempts}
}

// delay backs off exponentially while the provider reports rate limiting and
// waits the base delay for any other retryable error.
func (client *Client) delay(n uint, err error, _ *retry.Config) time.Duration {
	if errors.Is(err, ErrRateLimited) {
		return client.delayBase * time.Duration(uint64(1)<<n)
	}
	return client.delayBase
}

func outcomeOf(err error) Reason {
	if err == nil {
		return "ok"
	}
	return ReasonOf(err)
}
