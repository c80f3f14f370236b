package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub-io/payhub/internal/domain/order"
)

// OrderRepository implements order.Repository using PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// GetByID retrieves an order by its ID, nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o := &order.Order{Metadata: make(map[string]any)}
	var status string
	var metadata []byte
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, merchant_id, external_id, amount_cents, currency, status,
		        processor, processor_order_id, metadata, workflow_id, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.MerchantID, &o.ExternalID, &o.AmountCents, &o.Currency, &status,
		&o.Processor, &o.ProcessorOrderID, &metadata, &o.WorkflowID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = order.OrderStatus(status)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &o.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal order metadata: %w", err)
		}
	}
	return o, nil
}

// UpdateStatus updates the order's status, updated_at and, when provided,
// the processor order id. Returns rows affected; zero when the order does
// not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, update order.StatusUpdate) (int64, error) {
	var tag string
	args := []any{string(update.Status), time.Now().UTC(), update.OrderID}
	if update.ProcessorOrderID != nil {
		tag = `UPDATE orders SET status = $1, updated_at = $2, processor_order_id = $4 WHERE id = $3`
		args = append(args, *update.ProcessorOrderID)
	} else {
		tag = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	}

	res, err := r.db(ctx).Exec(ctx, tag, args...)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}
	return res.RowsAffected(), nil
}

// CreateTransaction appends a transaction record.
func (r *OrderRepository) CreateTransaction(ctx context.Context, tx *order.Transaction) error {
	raw, err := json.Marshal(tx.RawResponse)
	if err != nil {
		return fmt.Errorf("marshal raw response: %w", err)
	}

	_, err = r.db(ctx).Exec(ctx,
		`INSERT INTO transactions
		 (id, order_id, type, amount_cents, currency, status, processor_tx_id,
		  raw_response, error_code, error_message, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		tx.ID, tx.OrderID, string(tx.Type), tx.AmountCents, tx.Currency, string(tx.Status),
		tx.ProcessorTxID, raw, tx.ErrorCode, tx.ErrorMessage, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
