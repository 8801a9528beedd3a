package cleanup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mfagundes/storefront/internal/infrastructure/observability"
)

// Queue adapts the task repository to the enqueue port the checkout saga
// consumes.
type Queue struct {
	tasks   Repository
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewQueue creates a Queue over the task repository. metrics may be nil.
func NewQueue(tasks Repository, metrics *observability.Metrics, logger zerolog.Logger) *Queue {
	return &Queue{tasks: tasks, metrics: metrics, logger: logger}
}

// Enqueue records a failed cart clear for the retry worker.
func (q *Queue) Enqueue(ctx context.Context, userID string, reason string) error {
	task := NewTask(userID, reason)
	if err := q.tasks.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue cleanup task: %w", err)
	}
	if q.metrics != nil {
		q.metrics.CartClearFailures.Inc()
	}
	q.logger.Info().
		Str("task_id", task.ID.String()).
		Str("user_id", userID).
		Msg("cart cleanup task enqueued")
	return nil
}
