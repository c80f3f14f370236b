package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub-io/payhub/internal/domain/processor"
)

// ProcessorConfigRepository implements processor.Repository using PostgreSQL.
type ProcessorConfigRepository struct {
	pool *pgxpool.Pool
}

// NewProcessorConfigRepository creates a new ProcessorConfigRepository.
func NewProcessorConfigRepository(pool *pgxpool.Pool) *ProcessorConfigRepository {
	return &ProcessorConfigRepository{pool: pool}
}

func (r *ProcessorConfigRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// FindActive returns the first enabled, non-deleted config for the pair,
// highest priority first. Callers must not rely on ordering beyond priority.
func (r *ProcessorConfigRepository) FindActive(ctx context.Context, merchantID uuid.UUID, processorName string) (*processor.Config, error) {
	cfg := &processor.Config{}
	err := r.db(ctx).QueryRow(ctx,
		`SELECT id, merchant_id, processor, enc_credentials, priority, enabled, test_mode,
		        created_at, updated_at, deleted_at
		 FROM processor_configs
		 WHERE merchant_id = $1 AND processor = $2 AND enabled AND deleted_at IS NULL
		 ORDER BY priority DESC
		 LIMIT 1`,
		merchantID, processorName,
	).Scan(
		&cfg.ID, &cfg.MerchantID, &cfg.Processor, &cfg.EncCredentials, &cfg.Priority,
		&cfg.Enabled, &cfg.TestMode, &cfg.CreatedAt, &cfg.UpdatedAt, &cfg.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find processor config: %w", err)
	}
	return cfg, nil
}
