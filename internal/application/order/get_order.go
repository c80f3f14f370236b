package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/order"
)

// GetOrderUseCase is a point lookup for processor workflows.
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase creates a new GetOrderUseCase.
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute returns the order, or nil when absent.
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}
