package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub-io/payhub/internal/domain/merchant"
)

// MerchantRepository implements merchant.Repository using PostgreSQL.
type MerchantRepository struct {
	pool *pgxpool.Pool
}

// NewMerchantRepository creates a new MerchantRepository.
func NewMerchantRepository(pool *pgxpool.Pool) *MerchantRepository {
	return &MerchantRepository{pool: pool}
}

func (r *MerchantRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// GetWebhookInfo returns the merchant's webhook URL and optional signing
// secret, or nil when the merchant is unknown or has no URL configured.
func (r *MerchantRepository) GetWebhookInfo(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error) {
	info := &merchant.WebhookInfo{MerchantID: merchantID}
	var url *string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT webhook_url, webhook_secret FROM merchants WHERE id = $1`,
		merchantID,
	).Scan(&url, &info.WebhookSecret)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get merchant webhook info: %w", err)
	}
	if url == nil || *url == "" {
		return nil, nil
	}
	info.WebhookURL = *url
	return info, nil
}
