package webhook

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the delivery state of a webhook event.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
)

// Default retry tuning. The delay doubles per attempt from BaseRetryDelay
// up to MaxRetryDelay; after MaxDeliveryAttempts a transport error marks
// the event permanently failed.
const (
	DefaultDeliveryTimeout = 30 * time.Second
	BaseRetryDelay         = 1 * time.Minute
	MaxRetryDelay          = 24 * time.Hour
	MaxDeliveryAttempts    = 5
)

// RetryPolicy is the operator-tunable delivery tuning: the per-attempt HTTP
// deadline, the backoff curve, and the transport-error attempt cap.
type RetryPolicy struct {
	DeliveryTimeout time.Duration
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	MaxAttempts     int
}

// DefaultRetryPolicy returns the stock tuning.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		DeliveryTimeout: DefaultDeliveryTimeout,
		BaseDelay:       BaseRetryDelay,
		MaxDelay:        MaxRetryDelay,
		MaxAttempts:     MaxDeliveryAttempts,
	}
}

// BackoffDelay returns the deterministic retry delay for the given attempt
// number (1-based): min(base * 2^(attempt-1), max). No jitter.
func (p RetryPolicy) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Event is a durable record of an outbound notification owed to a merchant,
// tracked through delivery attempts.
type Event struct {
	ID            uuid.UUID
	MerchantID    uuid.UUID
	OrderID       *uuid.UUID
	EventType     string
	Payload       map[string]any
	Status        DeliveryStatus
	Attempts      int
	LastAttemptAt *time.Time
	NextRetryAt   *time.Time
	DeliveredAt   *time.Time
	WorkflowID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewEvent creates a pending event with zero attempts.
func NewEvent(merchantID uuid.UUID, orderID *uuid.UUID, eventType string, payload map[string]any, workflowID *string) *Event {
	now := time.Now().UTC()
	return &Event{
		ID:         uuid.New(),
		MerchantID: merchantID,
		OrderID:    orderID,
		EventType:  eventType,
		Payload:    payload,
		Status:     StatusPending,
		Attempts:   0,
		WorkflowID: workflowID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsTerminal reports whether the event has reached a terminal state.
func (e *Event) IsTerminal() bool {
	return e.Status == StatusDelivered || e.Status == StatusFailed
}

// BackoffDelay computes the retry delay under the default policy.
func BackoffDelay(attempt int) time.Duration {
	return DefaultRetryPolicy().BackoffDelay(attempt)
}
