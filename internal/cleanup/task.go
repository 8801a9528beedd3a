package cleanup

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStatus tracks a cleanup task through the retry worker.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one failed post-approval cart clear awaiting retry. Tasks are
// at-least-once: clearing an already-empty cart is a no-op, so duplicate
// execution is harmless.
type Task struct {
	ID          uuid.UUID
	UserID      string
	Reason      string
	Status      TaskStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	NextRunAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a pending task for the user's cart.
func NewTask(userID, reason string) *Task {
	now := time.Now()
	return &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Reason:      reason,
		Status:      TaskPending,
		MaxAttempts: 5,
		NextRunAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Repository persists cleanup tasks. Due claims pending tasks whose NextRunAt
// has passed and must prevent two workers from claiming the same task.
type Repository interface {
	Enqueue(ctx context.Context, task *Task) error
	Due(ctx context.Context, limit int) ([]*Task, error)
	MarkCompleted(ctx context.Context, taskID uuid.UUID) error
	MarkFailed(ctx context.Context, taskID uuid.UUID, attempts int, lastError string, nextRunAt time.Time) error
	MarkExhausted(ctx context.Context, taskID uuid.UUID, attempts int, lastError string) error
}
