package merchant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Merchant is read-only from this service's perspective; rows are owned by
// the onboarding system.
type Merchant struct {
	ID            uuid.UUID
	Name          string
	WebhookURL    string
	WebhookSecret *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WebhookInfo is the subset of merchant data needed to deliver a webhook.
// Secret is nil when the merchant has not configured signing; delivery is
// then unsigned.
type WebhookInfo struct {
	MerchantID    uuid.UUID
	WebhookURL    string
	WebhookSecret *string
}

// Repository defines the interface for merchant reads.
type Repository interface {
	// GetWebhookInfo returns nil when the merchant does not exist or has no
	// webhook URL configured. Absence is not an error.
	GetWebhookInfo(ctx context.Context, merchantID uuid.UUID) (*WebhookInfo, error)
}
