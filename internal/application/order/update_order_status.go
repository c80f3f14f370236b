package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/order"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// UpdateOrderStatusInput carries the fields of an order status update.
// ProcessorOrderID is only written when present; ProcessorTxID additionally
// triggers the transaction append.
type UpdateOrderStatusInput struct {
	OrderID          uuid.UUID
	Status           order.OrderStatus
	ProcessorOrderID *string
	ProcessorTxID    *string
	RawResponse      map[string]any
	ErrorCode        *string
	ErrorMessage     *string
}

// UpdateOrderStatusUseCase records the outcome of a processor operation on
// an order and, when a processor transaction id is supplied, appends a
// derived transaction to the audit trail.
type UpdateOrderStatusUseCase struct {
	orderRepo order.Repository
	txManager TransactionManager
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewUpdateOrderStatusUseCase creates a new UpdateOrderStatusUseCase.
func NewUpdateOrderStatusUseCase(orderRepo order.Repository, txManager TransactionManager, metrics *observability.Metrics, logger zerolog.Logger) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orderRepo: orderRepo,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute updates the order unconditionally and appends the derived
// transaction when a processor transaction id is present. An unknown order
// id is a silent no-op: the update affects zero rows and the re-read for
// the transaction amount returns nothing, so the insert is skipped too.
// The update and the insert commit together.
func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, in UpdateOrderStatusInput) error {
	if in.ProcessorTxID == nil {
		return uc.execute(ctx, in)
	}
	return uc.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return uc.execute(txCtx, in)
	})
}

func (uc *UpdateOrderStatusUseCase) execute(ctx context.Context, in UpdateOrderStatusInput) error {
	affected, err := uc.orderRepo.UpdateStatus(ctx, order.StatusUpdate{
		OrderID:          in.OrderID,
		Status:           in.Status,
		ProcessorOrderID: in.ProcessorOrderID,
	})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		uc.logger.Warn().
			Str("order_id", in.OrderID.String()).
			Str("status", string(in.Status)).
			Msg("order status update matched no rows")
	} else if uc.metrics != nil {
		uc.metrics.OrderStatusUpdates.WithLabelValues(string(in.Status)).Inc()
	}

	if in.ProcessorTxID == nil {
		return nil
	}

	// Re-read to obtain the amount for the transaction row.
	o, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return fmt.Errorf("reload order: %w", err)
	}
	if o == nil {
		return nil
	}

	tx := &order.Transaction{
		ID:            uuid.New(),
		OrderID:       o.ID,
		Type:          order.TransactionTypeForStatus(in.Status),
		AmountCents:   o.AmountCents,
		Currency:      o.Currency,
		Status:        order.TransactionStatusForOrder(in.Status),
		ProcessorTxID: in.ProcessorTxID,
		RawResponse:   in.RawResponse,
		ErrorCode:     in.ErrorCode,
		ErrorMessage:  in.ErrorMessage,
		CreatedAt:     time.Now().UTC(),
	}
	if err := uc.orderRepo.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	if uc.metrics != nil {
		uc.metrics.TransactionsTotal.WithLabelValues(string(tx.Type), string(tx.Status)).Inc()
	}

	uc.logger.Info().
		Str("order_id", o.ID.String()).
		Str("status", string(in.Status)).
		Str("transaction_type", string(tx.Type)).
		Msg("order status updated")
	return nil
}
