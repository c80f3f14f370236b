package order

import (
	"context"

	"github.com/google/uuid"
)

// StatusUpdate carries the fields touched by an order status update.
// ProcessorOrderID is only written when non-nil.
type StatusUpdate struct {
	OrderID          uuid.UUID
	Status           OrderStatus
	ProcessorOrderID *string
}

// Repository defines the interface for order and transaction persistence.
type Repository interface {
	// GetByID retrieves an order, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateStatus updates status, updated_at and (when provided) the
	// processor order id. Returns the number of rows affected; zero means
	// the order does not exist.
	UpdateStatus(ctx context.Context, update StatusUpdate) (int64, error)

	// CreateTransaction appends a transaction record.
	CreateTransaction(ctx context.Context, tx *Transaction) error
}
