package webhook

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for webhook event persistence.
type Repository interface {
	// Create inserts a new event.
	Create(ctx context.Context, event *Event) error

	// GetByID retrieves an event, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// MarkDelivered records a successful delivery: status delivered,
	// delivered_at stamped, next_retry_at cleared.
	MarkDelivered(ctx context.Context, id uuid.UUID, attempts int, deliveredAt time.Time) error

	// ScheduleRetry keeps the event pending with the attempt counter,
	// last-attempt stamp and the computed next retry time.
	ScheduleRetry(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt, nextRetryAt time.Time) error

	// MarkFailed records terminal failure: status failed, attempt counter
	// persisted, no further retry time.
	MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt time.Time) error

	// ListDue returns pending events whose next_retry_at is at or before
	// now (or never attempted), oldest first, up to limit rows.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Event, error)
}
