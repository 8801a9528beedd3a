package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfagundes/storefront/internal/cleanup"
)

// CleanupRepository implements cleanup.Repository using PostgreSQL.
type CleanupRepository struct {
	pool *pgxpool.Pool
	txm  *TxManager
}

// NewCleanupRepository creates a new CleanupRepository.
func NewCleanupRepository(pool *pgxpool.Pool, txm *TxManager) *CleanupRepository {
	return &CleanupRepository{pool: pool, txm: txm}
}

func (r *CleanupRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Enqueue inserts a pending task.
func (r *CleanupRepository) Enqueue(ctx context.Context, task *cleanup.Task) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO cart_cleanup_tasks
		 (id, user_id, reason, status, attempts, max_attempts, last_error, next_run_at, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		task.ID, task.UserID, task.Reason, string(task.Status),
		task.Attempts, task.MaxAttempts, task.LastError,
		task.NextRunAt, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cleanup task: %w", err)
	}
	return nil
}

// Due claims up to limit pending tasks whose next_run_at has passed.
// FOR UPDATE SKIP LOCKED keeps concurrent workers off each other's batch;
// claimed tasks get their next_run_at bumped so a crashed worker's batch
// resurfaces after a minute.
func (r *CleanupRepository) Due(ctx context.Context, limit int) ([]*cleanup.Task, error) {
	var tasks []*cleanup.Task

	err := r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		rows, err := r.db(ctx).Query(ctx,
			`SELECT id, user_id, reason, status, attempts, max_attempts, last_error, next_run_at, created_at, updated_at
			 FROM cart_cleanup_tasks
			 WHERE status = 'pending' AND next_run_at <= NOW()
			 ORDER BY next_run_at
			 LIMIT $1
			 FOR UPDATE SKIP LOCKED`, limit)
		if err != nil {
			return fmt.Errorf("select due tasks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			t := &cleanup.Task{}
			var statusStr string
			if err := rows.Scan(
				&t.ID, &t.UserID, &t.Reason, &statusStr,
				&t.Attempts, &t.MaxAttempts, &t.LastError,
				&t.NextRunAt, &t.CreatedAt, &t.UpdatedAt,
			); err != nil {
				return fmt.Errorf("scan cleanup task: %w", err)
			}
			t.Status = cleanup.TaskStatus(statusStr)
			tasks = append(tasks, t)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate cleanup tasks: %w", err)
		}

		for _, t := range tasks {
			_, err := r.db(ctx).Exec(ctx,
				`UPDATE cart_cleanup_tasks SET next_run_at = NOW() + INTERVAL '1 minute', updated_at = NOW()
				 WHERE id = $1`, t.ID)
			if err != nil {
				return fmt.Errorf("claim cleanup task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkCompleted finishes a task.
func (r *CleanupRepository) MarkCompleted(ctx context.Context, taskID uuid.UUID) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE cart_cleanup_tasks SET status = 'completed', updated_at = NOW() WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("complete cleanup task: %w", err)
	}
	return nil
}

// MarkFailed reschedules a task after a failed attempt.
func (r *CleanupRepository) MarkFailed(ctx context.Context, taskID uuid.UUID, attempts int, lastError string, nextRunAt time.Time) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE cart_cleanup_tasks
		 SET attempts = $2, last_error = $3, next_run_at = $4, updated_at = NOW()
		 WHERE id = $1`, taskID, attempts, lastError, nextRunAt)
	if err != nil {
		return fmt.Errorf("reschedule cleanup task: %w", err)
	}
	return nil
}

// MarkExhausted parks a task that ran out of attempts.
func (r *CleanupRepository) MarkExhausted(ctx context.Context, taskID uuid.UUID, attempts int, lastError string) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE cart_cleanup_tasks
		 SET status = 'failed', attempts = $2, last_error = $3, updated_at = NOW()
		 WHERE id = $1`, taskID, attempts, lastError)
	if err != nil {
		return fmt.Errorf("exhaust cleanup task: %w", err)
	}
	return nil
}
