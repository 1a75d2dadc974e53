package inventory

import (
	"context"
	"errors"

	"github.com/stockledger/backend/internal/domain/shared"
)

// maxConflictRetries bounds how often a command is replayed after losing an
// optimistic-concurrency race before the conflict surfaces to the caller.
const maxConflictRetries = 3

// withConflictRetry replays fn when it fails with a concurrency conflict.
// fn must reload the aggregate on every attempt so the retry operates on
// fresh state.
func withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
