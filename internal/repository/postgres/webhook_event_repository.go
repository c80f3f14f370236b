package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payhub-io/payhub/internal/domain/webhook"
)

// WebhookEventRepository implements webhook.Repository using PostgreSQL.
type WebhookEventRepository struct {
	pool *pgxpool.Pool
}

// NewWebhookEventRepository creates a new WebhookEventRepository.
func NewWebhookEventRepository(pool *pgxpool.Pool) *WebhookEventRepository {
	return &WebhookEventRepository{pool: pool}
}

func (r *WebhookEventRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Create inserts a new webhook event.
func (r *WebhookEventRepository) Create(ctx context.Context, e *webhook.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = r.db(ctx).Exec(ctx,
		`INSERT INTO webhook_events
		 (id, merchant_id, order_id, event_type, payload, status, attempts,
		  last_attempt_at, next_retry_at, delivered_at, workflow_id, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		e.ID, e.MerchantID, e.OrderID, e.EventType, payload, string(e.Status), e.Attempts,
		e.LastAttemptAt, e.NextRetryAt, e.DeliveredAt, e.WorkflowID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID, nil when absent.
func (r *WebhookEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*webhook.Event, error) {
	e, err := r.scanEvent(r.db(ctx).QueryRow(ctx,
		`SELECT id, merchant_id, order_id, event_type, payload, status, attempts,
		        last_attempt_at, next_retry_at, delivered_at, workflow_id, created_at, updated_at
		 FROM webhook_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// MarkDelivered records a successful delivery.
func (r *WebhookEventRepository) MarkDelivered(ctx context.Context, id uuid.UUID, attempts int, deliveredAt time.Time) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE webhook_events
		 SET status = $1, attempts = $2, last_attempt_at = $3, delivered_at = $3,
		     next_retry_at = NULL, updated_at = NOW()
		 WHERE id = $4`,
		string(webhook.StatusDelivered), attempts, deliveredAt, id,
	)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// ScheduleRetry keeps the event pending and records the next retry time.
func (r *WebhookEventRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt, nextRetryAt time.Time) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE webhook_events
		 SET status = $1, attempts = $2, last_attempt_at = $3, next_retry_at = $4, updated_at = NOW()
		 WHERE id = $5`,
		string(webhook.StatusPending), attempts, lastAttemptAt, nextRetryAt, id,
	)
	if err != nil {
		return fmt.Errorf("schedule retry: %w", err)
	}
	return nil
}

// MarkFailed records terminal failure after exhausted retries.
func (r *WebhookEventRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempts int, lastAttemptAt time.Time) error {
	_, err := r.db(ctx).Exec(ctx,
		`UPDATE webhook_events
		 SET status = $1, attempts = $2, last_attempt_at = $3, next_retry_at = NULL, updated_at = NOW()
		 WHERE id = $4`,
		string(webhook.StatusFailed), attempts, lastAttemptAt, id,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// ListDue returns pending events that are due for (re)delivery, oldest
// next_retry_at first; never-attempted events sort first.
func (r *WebhookEventRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*webhook.Event, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, merchant_id, order_id, event_type, payload, status, attempts,
		        last_attempt_at, next_retry_at, delivered_at, workflow_id, created_at, updated_at
		 FROM webhook_events
		 WHERE status = $1 AND (next_retry_at IS NULL OR next_retry_at <= $2)
		 ORDER BY next_retry_at ASC NULLS FIRST, created_at ASC
		 LIMIT $3`,
		string(webhook.StatusPending), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list due webhook events: %w", err)
	}
	defer rows.Close()

	var events []*webhook.Event
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *WebhookEventRepository) scanEvent(s scanner) (*webhook.Event, error) {
	e := &webhook.Event{Payload: make(map[string]any)}
	var (
		status  string
		payload []byte
	)
	err := s.Scan(
		&e.ID, &e.MerchantID, &e.OrderID, &e.EventType, &payload, &status, &e.Attempts,
		&e.LastAttemptAt, &e.NextRetryAt, &e.DeliveredAt, &e.WorkflowID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = webhook.DeliveryStatus(status)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal event payload: %w", err)
		}
	}
	return e, nil
}
