package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/order"
	"github.com/payhub-io/payhub/internal/domain/processor"
	"github.com/payhub-io/payhub/internal/domain/webhook"
)

func NewTestOrder(merchantID uuid.UUID, amountCents int64, currency string, status order.OrderStatus) *order.Order {
	now := time.Now().UTC()
	return &order.Order{
		ID:          uuid.New(),
		MerchantID:  merchantID,
		ExternalID:  uuid.New().String(),
		AmountCents: amountCents,
		Currency:    currency,
		Status:      status,
		Metadata:    make(map[string]any),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestWebhookEvent(merchantID uuid.UUID, attempts int) *webhook.Event {
	e := webhook.NewEvent(merchantID, nil, "payment.captured", map[string]any{
		"amount":   1500,
		"currency": "USD",
	}, nil)
	e.Attempts = attempts
	return e
}

func NewTestProcessorConfig(merchantID uuid.UUID, processorName, encCredentials string) *processor.Config {
	now := time.Now().UTC()
	return &processor.Config{
		ID:             uuid.New(),
		MerchantID:     merchantID,
		Processor:      processorName,
		EncCredentials: encCredentials,
		Priority:       0,
		Enabled:        true,
		TestMode:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
