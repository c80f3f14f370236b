package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/domain/order"
	"github.com/payhub-io/payhub/internal/domain/processor"
	"github.com/payhub-io/payhub/internal/domain/webhook"
)

// --- Order Repository Mock ---

// MockOrderRepository is a mock implementation of order.Repository.
type MockOrderRepository struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]*order.Order
	transactions []*order.Transaction

	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatusFunc      func(ctx context.Context, update order.StatusUpdate) (int64, error)
	CreateTransactionFunc func(ctx context.Context, tx *order.Transaction) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uuid.UUID]*order.Order),
	}
}

func (m *MockOrderRepository) AddOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id], nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, update order.StatusUpdate) (int64, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[update.OrderID]
	if !ok {
		return 0, nil
	}
	o.Status = update.Status
	o.UpdatedAt = time.Now().UTC()
	if update.ProcessorOrderID != nil {
		o.ProcessorOrderID = update.ProcessorOrderID
	}
	return 1, nil
}

func (m *MockOrderRepository) CreateTransaction(ctx context.Context, tx *order.Transaction) error {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, tx)
	return nil
}

func (m *MockOrderRepository) Transactions() []*order.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*order.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs the callback directly, outside any real
// database transaction.
type MockTransactionManager struct {
	mu    sync.Mutex
	calls int

	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *MockTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Webhook Event Repository Mock ---

// MockWebhookRepository is a mock implementation of webhook.Repository.
type MockWebhookRepository struct {
	mu     sync.Mutex
	events map[uuid.UUID]*webhook.Event

	CreateFunc        func(ctx context.Context, e *webhook.Event) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*webhook.Event, error)
	MarkDeliveredFunc func(ctx context.Context, id uuid.UUID, attempts int, deliveredAt time.Time) error
	ScheduleRetryFunc func(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt, nextRetryAt time.Time) error
	MarkFailedFunc    func(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt time.Time) error
	ListDueFunc       func(ctx context.Context, now time.Time, limit int) ([]*webhook.Event, error)
}

func NewMockWebhookRepository() *MockWebhookRepository {
	return &MockWebhookRepository{
		events: make(map[uuid.UUID]*webhook.Event),
	}
}

func (m *MockWebhookRepository) AddEvent(e *webhook.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

func (m *MockWebhookRepository) Event(id uuid.UUID) *webhook.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id]
}

func (m *MockWebhookRepository) Create(ctx context.Context, e *webhook.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
	return nil
}

func (m *MockWebhookRepository) GetByID(ctx context.Context, id uuid.UUID) (*webhook.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id], nil
}

func (m *MockWebhookRepository) MarkDelivered(ctx context.Context, id uuid.UUID, attempts int, deliveredAt time.Time) error {
	if m.MarkDeliveredFunc != nil {
		return m.MarkDeliveredFunc(ctx, id, attempts, deliveredAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = webhook.StatusDelivered
		e.Attempts = attempts
		e.LastAttemptAt = &deliveredAt
		e.DeliveredAt = &deliveredAt
		e.NextRetryAt = nil
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockWebhookRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt, nextRetryAt time.Time) error {
	if m.ScheduleRetryFunc != nil {
		return m.ScheduleRetryFunc(ctx, id, attempts, lastAttemptAt, nextRetryAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = webhook.StatusPending
		e.Attempts = attempts
		e.LastAttemptAt = &lastAttemptAt
		e.NextRetryAt = &nextRetryAt
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockWebhookRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt time.Time) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, id, attempts, lastAttemptAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = webhook.StatusFailed
		e.Attempts = attempts
		e.LastAttemptAt = &lastAttemptAt
		e.NextRetryAt = nil
		e.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockWebhookRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*webhook.Event, error) {
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []*webhook.Event
	for _, e := range m.events {
		if e.Status != webhook.StatusPending {
			continue
		}
		if e.NextRetryAt != nil && e.NextRetryAt.After(now) {
			continue
		}
		due = append(due, e)
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

// --- Merchant Repository Mock ---

// MockMerchantRepository is a mock implementation of merchant.Repository.
type MockMerchantRepository struct {
	mu    sync.Mutex
	infos map[uuid.UUID]*merchant.WebhookInfo

	GetWebhookInfoFunc func(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error)
}

func NewMockMerchantRepository() *MockMerchantRepository {
	return &MockMerchantRepository{
		infos: make(map[uuid.UUID]*merchant.WebhookInfo),
	}
}

func (m *MockMerchantRepository) AddWebhookInfo(info *merchant.WebhookInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos[info.MerchantID] = info
}

func (m *MockMerchantRepository) GetWebhookInfo(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error) {
	if m.GetWebhookInfoFunc != nil {
		return m.GetWebhookInfoFunc(ctx, merchantID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infos[merchantID], nil
}

// --- Processor Config Repository Mock ---

// MockProcessorConfigRepository is a mock implementation of processor.Repository.
type MockProcessorConfigRepository struct {
	mu      sync.Mutex
	configs []*processor.Config

	FindActiveFunc func(ctx context.Context, merchantID uuid.UUID, processorName string) (*processor.Config, error)
}

func NewMockProcessorConfigRepository() *MockProcessorConfigRepository {
	return &MockProcessorConfigRepository{}
}

func (m *MockProcessorConfigRepository) AddConfig(cfg *processor.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = append(m.configs, cfg)
}

func (m *MockProcessorConfigRepository) FindActive(ctx context.Context, merchantID uuid.UUID, processorName string) (*processor.Config, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, merchantID, processorName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *processor.Config
	for _, cfg := range m.configs {
		if cfg.MerchantID != merchantID || cfg.Processor != processorName {
			continue
		}
		if !cfg.Enabled || cfg.DeletedAt != nil {
			continue
		}
		if best == nil || cfg.Priority > best.Priority {
			best = cfg
		}
	}
	return best, nil
}
