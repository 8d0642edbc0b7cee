package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New(time.Second)
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run error is joined with hook errors", func(t *testing.T) {
		app := New(time.Second)
		runErr := errors.New("run failed")
		hookErr := errors.New("close failed")
		app.AddShutdownHook(func(ctx context.Context) error {
			return hookErr
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return runErr
		})
		assert.ErrorIs(t, err, runErr)
		assert.ErrorIs(t, err, hookErr)
	})

	t.Run("hooks run in LIFO order when run finishes", func(t *testing.T) {
		app := New(time.Second)
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"first", "second", "third"} {
			app.AddShutdownHook(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		}))
		assert.Equal(t, []string{"third", "second", "first"}, order)
	})

	t.Run("hooks run on context cancel", func(t *testing.T) {
		app := New(time.Second)
		hookCalled := make(chan struct{})

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			app.AddShutdownHook(func(ctx context.Context) error {
				close(hookCalled)
				return nil
			})
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		select {
		case <-hookCalled:
		default:
			t.Fatal("shutdown hook was not called")
		}
	})

	t.Run("hooks get a deadline", func(t *testing.T) {
		app := New(50 * time.Millisecond)
		app.AddShutdownHook(func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		}))
	})

	t.Run("hooks added after a signal are drained once run returns", func(t *testing.T) {
		app := New(time.Second)
		var mu sync.Mutex
		var order []string
		record := func(name string) func(context.Context) error {
			return func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			}
		}
		app.AddShutdownHook(record("early"))

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			// still wiring when the signal arrives
			time.Sleep(20 * time.Millisecond)
			app.AddShutdownHook(record("late"))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"early", "late"}, order)
	})

	t.Run("hooks added after Run returns run immediately", func(t *testing.T) {
		app := New(time.Second)
		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		}))

		called := false
		app.AddShutdownHook(func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			called = true
			return errors.New("close failed")
		})
		assert.True(t, called)
	})

	t.Run("run that ignores the signal is bounded by the shutdown timeout", func(t *testing.T) {
		app := New(50 * time.Millisecond)
		stuck := make(chan struct{})
		t.Cleanup(func() { close(stuck) })

		ctx, cancel := context.WithCancel(context.Background())
		start := time.Now()
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-stuck
			return nil
		})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}
