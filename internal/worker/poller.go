package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/config"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	"github.com/payhub-io/payhub/pkg/retry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Deliverer runs one webhook delivery attempt.
type Deliverer interface {
	Execute(ctx context.Context, in webhookApp.DeliverInput) (*webhookApp.DeliveryResult, error)
}

// WebhookInfoReader resolves a merchant's delivery target.
type WebhookInfoReader interface {
	Execute(ctx context.Context, merchantID uuid.UUID) (*merchant.WebhookInfo, error)
}

// Lock is a single-use mutual exclusion handle.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// LockFactory mints locks keyed per webhook event. Locking only narrows the
// double-invocation window between concurrent pollers; the delivery state
// machine itself does not guard against double counting.
type LockFactory interface {
	NewLock(key string) Lock
}

// RetryPoller re-invokes webhook delivery for pending events whose
// next_retry_at has come due. It is the external invoker the delivery state
// machine depends on: the state machine only persists status and
// next_retry_at, the poller turns those into renewed attempts.
type RetryPoller struct {
	events      webhook.Repository
	webhookInfo WebhookInfoReader
	deliverer   Deliverer
	locks       LockFactory
	cfg         config.WorkerConfig
	metrics     *observability.Metrics
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewRetryPoller creates a new RetryPoller.
func NewRetryPoller(
	events webhook.Repository,
	webhookInfo WebhookInfoReader,
	deliverer Deliverer,
	locks LockFactory,
	cfg config.WorkerConfig,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *RetryPoller {
	return &RetryPoller{
		events:      events,
		webhookInfo: webhookInfo,
		deliverer:   deliverer,
		locks:       locks,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
		tracer:      otel.Tracer("payhub/worker"),
	}
}

// Run polls until the context is cancelled.
func (p *RetryPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	p.logger.Info().
		Dur("poll_interval", p.cfg.PollInterval).
		Int("batch_size", p.cfg.BatchSize).
		Msg("retry poller started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("retry poller stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := p.PollOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error().Err(err).Msg("poll cycle failed")
			}
		}
	}
}

// PollOnce processes one batch of due events.
func (p *RetryPoller) PollOnce(ctx context.Context) error {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.WorkerPollDuration.Observe(time.Since(start).Seconds())
		}
	}()

	due, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() ([]*webhook.Event, error) {
		return p.events.ListDue(ctx, time.Now().UTC(), p.cfg.BatchSize)
	})
	if err != nil {
		return fmt.Errorf("list due events: %w", err)
	}

	for _, event := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.process(ctx, event)
	}
	return nil
}

func (p *RetryPoller) process(ctx context.Context, event *webhook.Event) {
	ctx, span := p.tracer.Start(ctx, "webhook.redeliver",
		trace.WithAttributes(
			attribute.String("webhook.event_id", event.ID.String()),
			attribute.Int("webhook.attempts", event.Attempts),
		))
	defer span.End()

	if p.metrics != nil {
		p.metrics.WorkerEventsPolled.Inc()
	}

	lock := p.locks.NewLock("webhook-event:" + event.ID.String())
	acquired, err := lock.Acquire(ctx)
	if err != nil {
		p.skip(event, "lock_error")
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("lock acquisition failed")
		return
	}
	if !acquired {
		p.skip(event, "locked")
		return
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			p.logger.Warn().Err(err).Str("event_id", event.ID.String()).Msg("lock release failed")
		}
	}()

	info, err := p.webhookInfo.Execute(ctx, event.MerchantID)
	if err != nil {
		p.skip(event, "webhook_info_error")
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("webhook info lookup failed")
		return
	}
	if info == nil {
		// Nothing to deliver to; leave the event pending for when the
		// merchant configures a URL.
		p.skip(event, "no_webhook_url")
		return
	}

	result, err := p.deliverer.Execute(ctx, webhookApp.DeliverInput{
		EventID:       event.ID,
		WebhookURL:    info.WebhookURL,
		WebhookSecret: info.WebhookSecret,
		Payload:       event.Payload,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("delivery invocation failed")
		return
	}

	p.logger.Debug().
		Str("event_id", event.ID.String()).
		Bool("success", result.Success).
		Int("attempt", result.Attempts).
		Msg("delivery attempt finished")
}

func (p *RetryPoller) skip(event *webhook.Event, reason string) {
	if p.metrics != nil {
		p.metrics.WorkerEventsSkipped.WithLabelValues(reason).Inc()
	}
	p.logger.Debug().Str("event_id", event.ID.String()).Str("reason", reason).Msg("event skipped")
}
