package merchant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	domainMerchant "github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWebhookInfo_Success(t *testing.T) {
	merchantID := uuid.New()
	secret := "whsec_abc"
	repo := testutil.NewMockMerchantRepository()
	repo.AddWebhookInfo(&domainMerchant.WebhookInfo{
		MerchantID:    merchantID,
		WebhookURL:    "https://merchant.example/webhooks",
		WebhookSecret: &secret,
	})

	uc := NewGetWebhookInfoUseCase(repo)

	info, err := uc.Execute(context.Background(), merchantID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "https://merchant.example/webhooks", info.WebhookURL)
	require.NotNil(t, info.WebhookSecret)
	assert.Equal(t, "whsec_abc", *info.WebhookSecret)
}

func TestGetWebhookInfo_UnknownMerchantReturnsNil(t *testing.T) {
	uc := NewGetWebhookInfoUseCase(testutil.NewMockMerchantRepository())

	info, err := uc.Execute(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, info)
}
