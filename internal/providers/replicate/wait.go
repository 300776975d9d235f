package replicate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WaitState is the outcome of waiting on a prediction.
type WaitState int

const (
	WaitPending WaitState = iota
	WaitSucceeded
	WaitFailed
	WaitTimedOut
)

func (s WaitState) String() string {
	switch s {
	case WaitSucceeded:
		return "succeeded"
	case WaitFailed:
		return "failed"
	case WaitTimedOut:
		return "timed_out"
	default:
		return "pending"
	}
}

// WaitOptions bounds a polling loop. MaxAttempts <= 0 leaves the loop bounded
// only by the context deadline.
type WaitOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

// Wait polls pred until it leaves the starting/processing states, the attempt
// ceiling is reached, or ctx is done. A context deadline is reported as
// WaitTimedOut; cancellation is returned as an error.
func (c *Client) Wait(ctx context.Context, pred *Prediction, opts WaitOptions) (*Prediction, WaitState, error) {
	if pred == nil {
		return nil, WaitFailed, errors.New("replicate: nil prediction")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	current := pred
	attempts := 0
	for current.Pending() {
		if opts.MaxAttempts > 0 && attempts >= opts.MaxAttempts {
			c.logger.Warn().
				Str("prediction_id", current.ID).
				Int("attempts", attempts).
				Msg("replicate: prediction still pending after attempt ceiling")
			return current, WaitTimedOut, nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return current, WaitTimedOut, nil
			}
			return current, WaitPending, ctx.Err()
		case <-ticker.C:
		}
		attempts++
		next, err := c.GetPrediction(ctx, current.ID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return current, WaitTimedOut, nil
			}
			return current, WaitPending, fmt.Errorf("replicate: poll prediction %s: %w", current.ID, err)
		}
		if next.ID == "" {
			next.ID = current.ID
		}
		current = next
	}
	if current.Status == StatusSucceeded {
		return current, WaitSucceeded, nil
	}
	return current, WaitFailed, nil
}
