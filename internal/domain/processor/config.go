package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Config is a merchant's configuration for one payment processor. The
// credential blob is stored encrypted; see the vault package for the
// envelope format.
type Config struct {
	ID             uuid.UUID
	MerchantID     uuid.UUID
	Processor      string
	EncCredentials string
	Priority       int
	Enabled        bool
	TestMode       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// MerchantProcessorConfig is the decrypted view handed to processor
// workflows. Credentials is a flat map of string keys to string values;
// expected keys are validated per processor at the call site.
type MerchantProcessorConfig struct {
	MerchantID  uuid.UUID
	Processor   string
	TestMode    bool
	Credentials map[string]string
}

// Repository defines the interface for processor config reads.
type Repository interface {
	// FindActive returns the first enabled, non-deleted config for the
	// (merchant, processor) pair, ordered by priority. Returns nil when the
	// merchant has not configured that processor; absence is not an error.
	FindActive(ctx context.Context, merchantID uuid.UUID, processorName string) (*Config, error)
}
