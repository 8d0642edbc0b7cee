// Package bootstrap provides application lifecycle helpers and builds the
// title pipeline from configuration.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const DefaultShutdownTimeout = 10 * time.Second

// App runs a command and its shutdown hooks.
type App struct {
	mu              sync.Mutex
	hooks           []func(ctx context.Context) error
	closed          bool
	shutdownTimeout time.Duration
}

func New(shutdownTimeout time.Duration) *App {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &App{shutdownTimeout: shutdownTimeout}
}

// AddShutdownHook registers fn to run when Run finishes. Hooks run in reverse
// order of registration. Once Run has returned, fn runs immediately.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	if !a.closed {
		a.hooks = append(a.hooks, fn)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		slog.Default().Error("Shutdown hook failed", "error", err)
	}
}

// Run calls run with a context cancelled on SIGINT or SIGTERM. Shutdown hooks
// run once run returns or a signal arrives, whichever is first. After a signal,
// Run waits for run to return and then runs the hooks it registered meanwhile,
// all within the shutdown timeout.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	var (
		runErr   error
		hookErrs []error
		returned bool
	)
	select {
	case <-ctx.Done():
		slog.Default().Info("Shutting down")
	case runErr = <-errCh:
		returned = true
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancelShutdown()
	if !returned {
		// Hooks such as a server shutdown are what make run return.
		hookErrs = append(hookErrs, a.shutdown(shutdownCtx, false))
		select {
		case runErr = <-errCh:
		case <-shutdownCtx.Done():
			slog.Default().Warn("Run did not return before the shutdown timeout", "timeout", a.shutdownTimeout)
		}
	}
	hookErrs = append(hookErrs, a.shutdown(shutdownCtx, true))
	return errors.Join(runErr, errors.Join(hookErrs...))
}

// shutdown runs the registered hooks. With final set, later hooks run as soon
// as they are added.
func (a *App) shutdown(ctx context.Context, final bool) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	if final {
		a.closed = true
	}
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
