package processor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	domainErrors "github.com/payhub-io/payhub/internal/domain/errors"
	"github.com/payhub-io/payhub/internal/infrastructure/vault"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_Success(t *testing.T) {
	v := vault.New("test-secret")
	envelope, err := v.Encrypt([]byte(`{"api_key":"sk_test_123","api_secret":"xyz"}`))
	require.NoError(t, err)

	merchantID := uuid.New()
	repo := testutil.NewMockProcessorConfigRepository()
	repo.AddConfig(testutil.NewTestProcessorConfig(merchantID, "stripe", envelope))

	uc := NewGetConfigUseCase(repo, v, zerolog.Nop())

	cfg, err := uc.Execute(context.Background(), merchantID, "stripe")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, merchantID, cfg.MerchantID)
	assert.Equal(t, "stripe", cfg.Processor)
	assert.True(t, cfg.TestMode)
	assert.Equal(t, map[string]string{
		"api_key":    "sk_test_123",
		"api_secret": "xyz",
	}, cfg.Credentials)
}

func TestGetConfig_NotConfigured_ReturnsNil(t *testing.T) {
	repo := testutil.NewMockProcessorConfigRepository()
	uc := NewGetConfigUseCase(repo, vault.New("test-secret"), zerolog.Nop())

	cfg, err := uc.Execute(context.Background(), uuid.New(), "razorpay")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestGetConfig_HighestPriorityWins(t *testing.T) {
	v := vault.New("test-secret")
	low, err := v.Encrypt([]byte(`{"api_key":"low"}`))
	require.NoError(t, err)
	high, err := v.Encrypt([]byte(`{"api_key":"high"}`))
	require.NoError(t, err)

	merchantID := uuid.New()
	repo := testutil.NewMockProcessorConfigRepository()
	lowCfg := testutil.NewTestProcessorConfig(merchantID, "stripe", low)
	lowCfg.Priority = 1
	highCfg := testutil.NewTestProcessorConfig(merchantID, "stripe", high)
	highCfg.Priority = 10
	repo.AddConfig(lowCfg)
	repo.AddConfig(highCfg)

	uc := NewGetConfigUseCase(repo, v, zerolog.Nop())

	cfg, err := uc.Execute(context.Background(), merchantID, "stripe")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "high", cfg.Credentials["api_key"])
}

func TestGetConfig_DecryptFailureIsHardError(t *testing.T) {
	merchantID := uuid.New()
	repo := testutil.NewMockProcessorConfigRepository()
	repo.AddConfig(testutil.NewTestProcessorConfig(merchantID, "stripe", "not:a:valid-envelope"))

	uc := NewGetConfigUseCase(repo, vault.New("test-secret"), zerolog.Nop())

	_, err := uc.Execute(context.Background(), merchantID, "stripe")
	assert.ErrorIs(t, err, domainErrors.ErrMalformedEnvelope)
}

func TestGetConfig_WrongKeyIsIntegrityError(t *testing.T) {
	envelope, err := vault.New("other-secret").Encrypt([]byte(`{"api_key":"sk"}`))
	require.NoError(t, err)

	merchantID := uuid.New()
	repo := testutil.NewMockProcessorConfigRepository()
	repo.AddConfig(testutil.NewTestProcessorConfig(merchantID, "stripe", envelope))

	uc := NewGetConfigUseCase(repo, vault.New("test-secret"), zerolog.Nop())

	_, err = uc.Execute(context.Background(), merchantID, "stripe")
	assert.ErrorIs(t, err, domainErrors.ErrEnvelopeIntegrity)
}

func TestGetConfig_NonJSONCredentials(t *testing.T) {
	v := vault.New("test-secret")
	envelope, err := v.Encrypt([]byte("not json"))
	require.NoError(t, err)

	merchantID := uuid.New()
	repo := testutil.NewMockProcessorConfigRepository()
	repo.AddConfig(testutil.NewTestProcessorConfig(merchantID, "stripe", envelope))

	uc := NewGetConfigUseCase(repo, v, zerolog.Nop())

	_, err = uc.Execute(context.Background(), merchantID, "stripe")
	assert.ErrorIs(t, err, domainErrors.ErrCredentialDecode)
}
