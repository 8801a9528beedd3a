package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mfagundes/storefront/internal/application/checkout"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

// CheckoutLocker serializes checkout passes per user with a Redis lease, so
// two instances of the API never run the saga for the same user at once.
type CheckoutLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCheckoutLocker creates a locker whose leases expire after ttl.
func NewCheckoutLocker(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CheckoutLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CheckoutLocker{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the per-user lease or fails fast with ErrCheckoutInProgress.
// The returned release runs on a detached context: the lease must come back
// even when the request that took it was cancelled.
func (cl *CheckoutLocker) Acquire(ctx context.Context, userID string) (checkout.ReleaseFunc, error) {
	lease := NewLease(cl.client, "checkout:user:"+userID, cl.ttl)

	acquired, err := lease.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, domainErrors.ErrCheckoutInProgress
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil {
			// An expired lease self-heals; log and move on.
			cl.logger.Warn().
				Str("user_id", userID).
				Err(err).
				Msg("checkout lease release failed")
		}
	}
	return release, nil
}
