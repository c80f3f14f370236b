package order

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is a free-form status string; processors may introduce
// additional values, so this is deliberately not a closed enum.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusAuthorized OrderStatus = "authorized"
	StatusCaptured   OrderStatus = "captured"
	StatusFailed     OrderStatus = "failed"
	StatusRefunded   OrderStatus = "refunded"
)

// Order represents a merchant order. Orders are mutated only through the
// status-update operation and never deleted by this service.
type Order struct {
	ID               uuid.UUID
	MerchantID       uuid.UUID
	ExternalID       string
	AmountCents      int64
	Currency         string
	Status           OrderStatus
	Processor        *string
	ProcessorOrderID *string
	Metadata         map[string]any
	WorkflowID       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TransactionType represents the kind of processor operation a transaction
// records.
type TransactionType string

const (
	TypeAuthorization TransactionType = "authorization"
	TypeCapture       TransactionType = "capture"
	TypeRefund        TransactionType = "refund"
)

// TransactionStatus is the outcome recorded on a transaction row.
type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxSuccess TransactionStatus = "success"
	TxFailed  TransactionStatus = "failed"
)

// Transaction is an append-only audit record of a processor operation
// against an order. Created, never mutated.
type Transaction struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	Type          TransactionType
	AmountCents   int64
	Currency      string
	Status        TransactionStatus
	ProcessorTxID *string
	RawResponse   map[string]any
	ErrorCode     *string
	ErrorMessage  *string
	CreatedAt     time.Time
}

// TransactionTypeForStatus derives the transaction type recorded for an
// order status update. Anything that is not a capture is recorded as an
// authorization.
func TransactionTypeForStatus(status OrderStatus) TransactionType {
	switch status {
	case StatusCaptured:
		return TypeCapture
	case StatusAuthorized:
		return TypeAuthorization
	default:
		return TypeAuthorization
	}
}

// TransactionStatusForOrder maps an order status to the transaction outcome:
// failed orders record failed transactions, everything else records success.
func TransactionStatusForOrder(status OrderStatus) TransactionStatus {
	if status == StatusFailed {
		return TxFailed
	}
	return TxSuccess
}
