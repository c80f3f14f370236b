package merchant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/merchant"
)

// GetWebhookInfoUseCase resolves where (and whether) a merchant's webhooks
// should be delivered.
type GetWebhookInfoUseCase struct {
	merchantRepo merchant.Repository
}

// NewGetWebhookInfoUseCase creates a new GetWebhookInfoUseCase.
func NewGetWebhookInfoUseCase(merchantRepo merchant.Repository) *GetWebhookInfoUseCase {
	return &GetWebhookInfoUseCase{merchantRepo: merchantRepo}
}

// Execute returns the merchant's webhook URL and optional signing secret,
// or nil when the merchant is unknown or has no webhook URL. Absence is a
// valid outcome, not an error.
func (uc *GetWebhookInfoUseCase) Execute(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error) {
	info, err := uc.merchantRepo.GetWebhookInfo(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("get webhook info: %w", err)
	}
	return info, nil
}
