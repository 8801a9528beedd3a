package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfagundes/storefront/internal/application/checkout"
	"github.com/mfagundes/storefront/internal/cleanup"
	"github.com/mfagundes/storefront/internal/domain/cart"
	"github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/gateway"
)

// --- Cart Gateway Mock ---

// MockCartGateway is a mock implementation of gateway.CartGateway.
type MockCartGateway struct {
	mu        sync.Mutex
	snapshots map[string]*cart.Snapshot

	GetCartCalls   int
	ClearCartCalls int

	GetCartFunc   func(ctx context.Context, userID string) (*cart.Snapshot, error)
	ClearCartFunc func(ctx context.Context, userID string) error
}

func NewMockCartGateway() *MockCartGateway {
	return &MockCartGateway{
		snapshots: make(map[string]*cart.Snapshot),
	}
}

// SetCart seeds the snapshot returned for a user.
func (m *MockCartGateway) SetCart(snapshot *cart.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.UserID] = snapshot
}

func (m *MockCartGateway) GetCart(ctx context.Context, userID string) (*cart.Snapshot, error) {
	m.mu.Lock()
	m.GetCartCalls++
	m.mu.Unlock()

	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[userID]
	if !ok {
		return nil, errors.ErrCartNotFound
	}
	return snap, nil
}

func (m *MockCartGateway) ClearCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.ClearCartCalls++
	m.mu.Unlock()

	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, userID)
	return nil
}

// --- Payment Gateway Mock ---

// MockPaymentGateway is a mock implementation of gateway.PaymentGateway.
// By default every submission is approved with sequential PAY-%04d ids.
type MockPaymentGateway struct {
	mu      sync.Mutex
	counter int

	SubmitCalls int
	Requests    []gateway.SubmitPaymentRequest

	SubmitPaymentFunc func(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error)
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) SubmitPayment(ctx context.Context, req gateway.SubmitPaymentRequest) (*gateway.PaymentOutcome, error) {
	m.mu.Lock()
	m.SubmitCalls++
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.SubmitPaymentFunc != nil {
		return m.SubmitPaymentFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return &gateway.PaymentOutcome{
		PaymentID: fmt.Sprintf("PAY-%04d", m.counter),
		Status:    order.PaymentApproved,
	}, nil
}

// LastRequest returns the most recent submission, or nil when none was made.
func (m *MockPaymentGateway) LastRequest() *gateway.SubmitPaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	req := m.Requests[len(m.Requests)-1]
	return &req
}

// --- Catalog Gateway Mock ---

// MockCatalogGateway is a mock implementation of gateway.CatalogGateway.
type MockCatalogGateway struct {
	mu    sync.Mutex
	names map[int64]string

	ProductNameCalls int

	ProductNameFunc func(ctx context.Context, productID int64) (string, error)
}

func NewMockCatalogGateway() *MockCatalogGateway {
	return &MockCatalogGateway{
		names: make(map[int64]string),
	}
}

func (m *MockCatalogGateway) SetName(productID int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[productID] = name
}

func (m *MockCatalogGateway) ProductName(ctx context.Context, productID int64) (string, error) {
	m.mu.Lock()
	m.ProductNameCalls++
	m.mu.Unlock()

	if m.ProductNameFunc != nil {
		return m.ProductNameFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.names[productID]
	if !ok {
		return "", errors.ErrGatewayUnavailable
	}
	return name, nil
}

// --- Order Repository Mock ---

// MockOrderRepository is a mock implementation of order.Repository backed by
// an in-memory map and a process-local sequence.
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*order.Order
	seq    int

	NextOrderNumberCalls int
	CreateCalls          int

	NextOrderNumberFunc func(ctx context.Context) (string, error)
	CreateFunc          func(ctx context.Context, o *order.Order) error
	GetByIDFunc         func(ctx context.Context, orderID string) (*order.Order, error)
	ListByUserFunc      func(ctx context.Context, userID string) ([]*order.Order, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*order.Order),
	}
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.NextOrderNumberCalls++
	m.mu.Unlock()

	if m.NextOrderNumberFunc != nil {
		return m.NextOrderNumberFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("ORD-%04d", m.seq), nil
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.OrderID] = o
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, errors.ErrOrderNotFound
	}
	return o, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

// Stored returns the persisted order by id, or nil.
func (m *MockOrderRepository) Stored(orderID string) *order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[orderID]
}

// --- User Locker Mock ---

// MockUserLocker is an in-process checkout.UserLocker. It actually enforces
// mutual exclusion per user so concurrency tests are meaningful.
type MockUserLocker struct {
	mu   sync.Mutex
	held map[string]bool

	AcquireCalls int
	ReleaseCalls int

	AcquireFunc func(ctx context.Context, userID string) (checkout.ReleaseFunc, error)
}

func NewMockUserLocker() *MockUserLocker {
	return &MockUserLocker{
		held: make(map[string]bool),
	}
}

func (m *MockUserLocker) Acquire(ctx context.Context, userID string) (checkout.ReleaseFunc, error) {
	m.mu.Lock()
	m.AcquireCalls++
	m.mu.Unlock()

	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[userID] {
		return nil, errors.ErrCheckoutInProgress
	}
	m.held[userID] = true
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.ReleaseCalls++
		delete(m.held, userID)
	}, nil
}

// --- Cart Cleanup Queue Mock ---

// MockCleanupQueue records enqueued cart cleanup tasks.
type MockCleanupQueue struct {
	mu    sync.Mutex
	tasks []CleanupTask

	EnqueueCalls int

	EnqueueFunc func(ctx context.Context, userID string, reason string) error
}

// CleanupTask is one recorded enqueue.
type CleanupTask struct {
	UserID string
	Reason string
}

func NewMockCleanupQueue() *MockCleanupQueue {
	return &MockCleanupQueue{}
}

func (m *MockCleanupQueue) Enqueue(ctx context.Context, userID string, reason string) error {
	m.mu.Lock()
	m.EnqueueCalls++
	m.mu.Unlock()

	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, userID, reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, CleanupTask{UserID: userID, Reason: reason})
	return nil
}

// Tasks returns a copy of the recorded tasks.
func (m *MockCleanupQueue) Tasks() []CleanupTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CleanupTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// --- Cleanup Task Repository Mock ---

// MockCleanupRepository is an in-memory cleanup.Repository.
type MockCleanupRepository struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*cleanup.Task

	EnqueueTaskCalls   int
	DueCalls           int
	MarkCompletedCalls int
	MarkFailedCalls    int
	MarkExhaustedCalls int

	DueFunc func(ctx context.Context, limit int) ([]*cleanup.Task, error)
}

func NewMockCleanupRepository() *MockCleanupRepository {
	return &MockCleanupRepository{
		tasks: make(map[uuid.UUID]*cleanup.Task),
	}
}

func (m *MockCleanupRepository) Enqueue(ctx context.Context, task *cleanup.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueTaskCalls++
	m.tasks[task.ID] = task
	return nil
}

func (m *MockCleanupRepository) Due(ctx context.Context, limit int) ([]*cleanup.Task, error) {
	m.mu.Lock()
	m.DueCalls++
	m.mu.Unlock()

	if m.DueFunc != nil {
		return m.DueFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var due []*cleanup.Task
	for _, t := range m.tasks {
		if t.Status == cleanup.TaskPending && !t.NextRunAt.After(now) {
			due = append(due, t)
			if len(due) == limit {
				break
			}
		}
	}
	return due, nil
}

func (m *MockCleanupRepository) MarkCompleted(ctx context.Context, taskID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkCompletedCalls++
	if t, ok := m.tasks[taskID]; ok {
		t.Status = cleanup.TaskCompleted
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockCleanupRepository) MarkFailed(ctx context.Context, taskID uuid.UUID, attempts int, lastError string, nextRunAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFailedCalls++
	if t, ok := m.tasks[taskID]; ok {
		t.Attempts = attempts
		t.LastError = lastError
		t.NextRunAt = nextRunAt
		t.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockCleanupRepository) MarkExhausted(ctx context.Context, taskID uuid.UUID, attempts int, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkExhaustedCalls++
	if t, ok := m.tasks[taskID]; ok {
		t.Status = cleanup.TaskFailed
		t.Attempts = attempts
		t.LastError = lastError
		t.UpdatedAt = time.Now()
	}
	return nil
}

// Task returns a copy of the stored task by id, or nil.
func (m *MockCleanupRepository) Task(taskID uuid.UUID) *cleanup.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}
