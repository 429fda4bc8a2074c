package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/oshokin/miner-runner/internal/logger"
)

// errEmptySchedule is returned when no cron expression was provided.
var errEmptySchedule = errors.New("schedule expression is empty")

// Options configure the periodic loop.
type Options struct {
	// Spec is the cron expression (standard five-field format).
	Spec string
	// Job is invoked on every tick. Errors are logged, not fatal to the loop.
	Job func(ctx context.Context) error
}

// Validate checks that the cron expression parses.
func Validate(spec string) error {
	if spec == "" {
		return errEmptySchedule
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	return nil
}

// Run starts the cron loop and blocks until the context is canceled. A tick
// arriving while the previous run is still in flight is skipped, keeping
// the single-instance assumption of the artifact directory intact.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "scheduler")

	if err := Validate(opts.Spec); err != nil {
		return err
	}

	var busy atomic.Bool

	c := cron.New()

	_, err := c.AddFunc(opts.Spec, func() {
		if !busy.CompareAndSwap(false, true) {
			logger.Warn(ctx, "Previous run still in flight, skipping tick")
			return
		}

		defer busy.Store(false)

		if jobErr := opts.Job(ctx); jobErr != nil {
			logger.ErrorKV(ctx, "Scheduled run failed", "error", jobErr)
		}
	})
	if err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}

	logger.InfoKV(ctx, "Schedule started", "spec", opts.Spec)

	c.Start()

	<-ctx.Done()

	// Let an in-flight run finish before returning.
	<-c.Stop().Done()

	logger.Info(ctx, "Schedule stopped")

	return nil
}
