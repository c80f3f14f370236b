package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	domainWebhook "github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent_Success(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	uc := NewCreateEventUseCase(repo, nil, zerolog.Nop())

	merchantID := uuid.New()
	orderID := uuid.New()

	id, err := uc.Execute(context.Background(), CreateEventInput{
		MerchantID: merchantID,
		OrderID:    &orderID,
		EventType:  "payment.captured",
		Payload:    map[string]any{"amount": 1500},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	stored := repo.Event(id)
	require.NotNil(t, stored)
	assert.Equal(t, domainWebhook.StatusPending, stored.Status)
	assert.Equal(t, 0, stored.Attempts)
	assert.Equal(t, merchantID, stored.MerchantID)
	assert.Equal(t, &orderID, stored.OrderID)
	assert.Equal(t, "payment.captured", stored.EventType)
}

func TestCreateEvent_StoreRejectionPropagates(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	repo.CreateFunc = func(ctx context.Context, e *domainWebhook.Event) error {
		return errors.New(`insert webhook event: violates foreign key constraint "webhook_events_merchant_id_fkey"`)
	}
	uc := NewCreateEventUseCase(repo, nil, zerolog.Nop())

	_, err := uc.Execute(context.Background(), CreateEventInput{
		MerchantID: uuid.New(),
		EventType:  "payment.captured",
		Payload:    map[string]any{},
	})
	assert.Error(t, err)
}
