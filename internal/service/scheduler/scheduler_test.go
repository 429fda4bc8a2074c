package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate accepts standard cron expressions and rejects garbage.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate("0 * * * *"))
	require.NoError(t, Validate("@hourly"))
	require.Error(t, Validate(""))
	require.Error(t, Validate("every five minutes"))
}

// TestRunRejectsBadSpec fails fast before starting the loop.
func TestRunRejectsBadSpec(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{
		Spec: "not-a-spec",
		Job:  func(context.Context) error { return nil },
	})
	require.Error(t, err)
}

// TestRunStopsOnContextCancel verifies the loop returns once the context is
// canceled, without waiting for a tick.
func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, &Options{
			Spec: "@hourly",
			Job:  func(context.Context) error { return nil },
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
