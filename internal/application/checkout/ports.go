package checkout

import (
	"context"
)

// ReleaseFunc releases a previously acquired user lease.
type ReleaseFunc func()

// UserLocker serializes checkout passes for a single user, so two concurrent
// checkouts cannot both observe and act on the same cart snapshot.
// This is an application-layer port, not a domain concern.
type UserLocker interface {
	// Acquire obtains the per-user lease or fails with ErrCheckoutInProgress.
	Acquire(ctx context.Context, userID string) (ReleaseFunc, error)
}

// CartCleanupQueue records a failed post-approval cart clear for an
// at-least-once retry worker, so saga latency is never coupled to cleanup
// latency.
type CartCleanupQueue interface {
	Enqueue(ctx context.Context, userID string, reason string) error
}
