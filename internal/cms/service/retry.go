package service

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/gitpress/library/db/githost"
)

// retryBaseDelay initial backoff before re-running a conflicted cycle
const retryBaseDelay = 100 * time.Millisecond

// RetryOnConflict re-run a whole read-mutate-write cycle that lost the
// optimistic-concurrency race, with doubling backoff between attempts.
//
// The store client and the mutators never retry on their own; a stale
// version means the cycle's read is no longer an accurate picture of the
// document, so only the caller may decide to re-read and re-apply. op must
// therefore contain the complete cycle, not just the write. Any error other
// than a version conflict surfaces immediately.
func RetryOnConflict(ctx context.Context,
	attempts int, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := retryBaseDelay
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "wait before retry")
			case <-time.After(delay):
			}
			delay *= 2
		}

		if err = op(ctx); err == nil || !errors.Is(err, githost.ErrConflict) {
			return err
		}
	}

	return errors.Wrapf(err, "gave up after %d attempts", attempts)
}
