package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mfagundes/storefront/internal/gateway"
	"github.com/mfagundes/storefront/internal/infrastructure/observability"
	"github.com/mfagundes/storefront/pkg/retry"
)

// Worker drains pending cart cleanup tasks. Each task is a cart clear the
// checkout saga could not complete; the worker retries it with backoff until
// it succeeds or the task exhausts its attempts.
type Worker struct {
	tasks     Repository
	carts     gateway.CartGateway
	metrics   *observability.Metrics
	logger    zerolog.Logger
	pollEvery time.Duration
	batchSize int
	retryCfg  retry.Config
}

// NewWorker creates a cleanup worker. pollEvery <= 0 falls back to 30s.
func NewWorker(
	tasks Repository,
	carts gateway.CartGateway,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	pollEvery time.Duration,
) *Worker {
	if pollEvery <= 0 {
		pollEvery = 30 * time.Second
	}
	return &Worker{
		tasks:     tasks,
		carts:     carts,
		metrics:   metrics,
		logger:    logger,
		pollEvery: pollEvery,
		batchSize: 20,
		retryCfg: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		},
	}
}

// SetBatchSize overrides how many due tasks a single poll claims.
func (w *Worker) SetBatchSize(n int) {
	if n > 0 {
		w.batchSize = n
	}
}

// Run polls for due tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().
		Dur("poll_interval", w.pollEvery).
		Msg("cart cleanup worker started")

	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()

	for {
		if err := w.drain(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("cleanup drain pass failed")
		}

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("cart cleanup worker stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// drain claims one batch of due tasks and processes them sequentially.
func (w *Worker) drain(ctx context.Context) error {
	due, err := w.tasks.Due(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if w.metrics != nil {
		w.metrics.CleanupTasksOutstanding.Set(float64(len(due)))
	}

	for _, task := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.process(ctx, task)
	}
	return nil
}

func (w *Worker) process(ctx context.Context, task *Task) {
	start := time.Now()

	err := retry.Do(ctx, w.retryCfg, func() error {
		return w.carts.ClearCart(ctx, task.UserID)
	}, func(n uint, err error) {
		w.logger.Debug().
			Str("task_id", task.ID.String()).
			Uint("attempt", n+1).
			Err(err).
			Msg("cart clear retry")
	})

	if w.metrics != nil {
		w.metrics.CleanupTaskDuration.Observe(time.Since(start).Seconds())
	}

	if err == nil {
		if mErr := w.tasks.MarkCompleted(ctx, task.ID); mErr != nil {
			w.logger.Error().
				Str("task_id", task.ID.String()).
				Err(mErr).
				Msg("cart cleared but task completion not recorded")
			return
		}
		w.recordResult("completed")
		w.logger.Info().
			Str("task_id", task.ID.String()).
			Str("user_id", task.UserID).
			Msg("cart cleanup task completed")
		return
	}

	attempts := task.Attempts + 1
	if attempts >= task.MaxAttempts {
		if mErr := w.tasks.MarkExhausted(ctx, task.ID, attempts, err.Error()); mErr != nil {
			w.logger.Error().Str("task_id", task.ID.String()).Err(mErr).Msg("failed to mark task exhausted")
			return
		}
		w.recordResult("exhausted")
		w.logger.Error().
			Str("task_id", task.ID.String()).
			Str("user_id", task.UserID).
			Int("attempts", attempts).
			Err(err).
			Msg("cart cleanup task exhausted, manual intervention required")
		return
	}

	nextRun := time.Now().Add(backoffDelay(attempts))
	if mErr := w.tasks.MarkFailed(ctx, task.ID, attempts, err.Error(), nextRun); mErr != nil {
		w.logger.Error().Str("task_id", task.ID.String()).Err(mErr).Msg("failed to reschedule task")
		return
	}
	w.recordResult("rescheduled")
	w.logger.Warn().
		Str("task_id", task.ID.String()).
		Str("user_id", task.UserID).
		Int("attempts", attempts).
		Time("next_run_at", nextRun).
		Err(err).
		Msg("cart cleanup task rescheduled")
}

func (w *Worker) recordResult(result string) {
	if w.metrics != nil {
		w.metrics.CleanupTasksProcessed.WithLabelValues(result).Inc()
	}
}

// backoffDelay doubles per completed attempt, capped at 10 minutes.
func backoffDelay(attempts int) time.Duration {
	d := time.Minute
	for i := 1; i < attempts && d < 10*time.Minute; i++ {
		d *= 2
	}
	if d > 10*time.Minute {
		d = 10 * time.Minute
	}
	return d
}
