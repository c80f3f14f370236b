package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	domainErrors "github.com/payhub-io/payhub/internal/domain/errors"
	"github.com/payhub-io/payhub/internal/domain/processor"
	"github.com/rs/zerolog"
)

// Decrypter opens credential envelopes produced by the vault.
type Decrypter interface {
	Decrypt(envelope string) ([]byte, error)
}

// GetConfigUseCase resolves and decrypts a merchant's processor
// configuration for processor workflows.
type GetConfigUseCase struct {
	configRepo processor.Repository
	decrypter  Decrypter
	logger     zerolog.Logger
}

// NewGetConfigUseCase creates a new GetConfigUseCase.
func NewGetConfigUseCase(configRepo processor.Repository, decrypter Decrypter, logger zerolog.Logger) *GetConfigUseCase {
	return &GetConfigUseCase{
		configRepo: configRepo,
		decrypter:  decrypter,
		logger:     logger,
	}
}

// Execute returns the decrypted config for the (merchant, processor) pair,
// or nil when the merchant has not configured that processor. Absence is a
// valid outcome, not an error. Decryption failure is a hard error: a
// misconfigured key or corrupted blob is not recoverable here.
func (uc *GetConfigUseCase) Execute(ctx context.Context, merchantID uuid.UUID, processorName string) (*processor.MerchantProcessorConfig, error) {
	cfg, err := uc.configRepo.FindActive(ctx, merchantID, processorName)
	if err != nil {
		return nil, fmt.Errorf("find processor config: %w", err)
	}
	if cfg == nil {
		uc.logger.Debug().
			Str("merchant_id", merchantID.String()).
			Str("processor", processorName).
			Msg("no processor config")
		return nil, nil
	}

	plaintext, err := uc.decrypter.Decrypt(cfg.EncCredentials)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials for merchant %s: %w", merchantID, err)
	}

	var credentials map[string]string
	if err := json.Unmarshal(plaintext, &credentials); err != nil {
		return nil, domainErrors.NewDomainError(
			"credential_decode",
			fmt.Sprintf("decode credentials for merchant %s", merchantID),
			domainErrors.ErrCredentialDecode,
		)
	}

	return &processor.MerchantProcessorConfig{
		MerchantID:  cfg.MerchantID,
		Processor:   cfg.Processor,
		TestMode:    cfg.TestMode,
		Credentials: credentials,
	}, nil
}
