package interaction

import (
	"bdd_automation/domain/entities"
	"context"
	"fmt"
	"time"
)

// PollOptions bounds a wait. Zero Timeout waits until ctx is done.
type PollOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Condition reports whether the awaited state holds. A returned error aborts the wait,
// so conditions return errors only for failures that retrying cannot fix.
type Condition func(ctx context.Context) (bool, error)

// Poll - evaluates cond until it holds, it fails, or the budget runs out.
// Exhausting the budget yields an error wrapping entities.ErrTimeout.
func Poll(ctx context.Context, opts PollOptions, cond Condition) error {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	pollCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		ok, err := cond(pollCtx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("wait canceled: %w", ctx.Err())
			}
			return fmt.Errorf("condition not met within %s: %w", opts.Timeout, entities.ErrTimeout)
		case <-ticker.C:
		}
	}
}

// sleep - waits d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
