package webhook

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// CreateEventInput describes a new outbound notification owed to a merchant.
type CreateEventInput struct {
	MerchantID uuid.UUID
	OrderID    *uuid.UUID
	EventType  string
	Payload    map[string]any
	WorkflowID *string
}

// CreateEventUseCase inserts pending webhook events for later delivery.
type CreateEventUseCase struct {
	eventRepo webhook.Repository
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewCreateEventUseCase creates a new CreateEventUseCase.
func NewCreateEventUseCase(eventRepo webhook.Repository, metrics *observability.Metrics, logger zerolog.Logger) *CreateEventUseCase {
	return &CreateEventUseCase{
		eventRepo: eventRepo,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute creates the event in pending state with zero attempts and returns
// its id. Store rejections (e.g. a foreign-key violation for an unknown
// merchant) propagate as hard errors.
func (uc *CreateEventUseCase) Execute(ctx context.Context, in CreateEventInput) (uuid.UUID, error) {
	event := webhook.NewEvent(in.MerchantID, in.OrderID, in.EventType, in.Payload, in.WorkflowID)

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return uuid.Nil, fmt.Errorf("create webhook event: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.WebhookEventsCreated.WithLabelValues(in.EventType).Inc()
	}
	uc.logger.Info().
		Str("event_id", event.ID.String()).
		Str("merchant_id", in.MerchantID.String()).
		Str("event_type", in.EventType).
		Msg("webhook event created")

	return event.ID, nil
}
