package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

// Outbound header names.
const (
	headerEventID   = "X-Payhub-Event-Id"
	headerTimestamp = "X-Payhub-Timestamp"
	headerSignature = "X-Payhub-Signature"
)

// DeliverInput carries one delivery attempt. Secret nil means the delivery
// goes unsigned.
type DeliverInput struct {
	EventID       uuid.UUID
	WebhookURL    string
	WebhookSecret *string
	Payload       map[string]any
}

// DeliveryResult is the structured outcome of a single attempt. Ordinary
// delivery failure is reported here, never as an error: the caller decides
// whether and when to re-invoke based on the persisted status and
// next_retry_at.
type DeliveryResult struct {
	Success      bool
	StatusCode   *int
	Attempts     int
	DeliveredAt  *time.Time
	ErrorMessage *string
}

// DeliverUseCase performs exactly one webhook delivery attempt: sign, send,
// record the outcome, compute retry eligibility and backoff. It never loops;
// re-invocation is the caller's job.
type DeliverUseCase struct {
	eventRepo webhook.Repository
	sender    Sender
	policy    webhook.RetryPolicy
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

// NewDeliverUseCase creates a new DeliverUseCase. A nil sender falls back to
// an HTTP client bounded by the policy's delivery timeout; zero policy
// fields fall back to the defaults, so a zero-value policy is the stock
// tuning.
func NewDeliverUseCase(eventRepo webhook.Repository, sender Sender, policy webhook.RetryPolicy, metrics *observability.Metrics, logger zerolog.Logger) *DeliverUseCase {
	defaults := webhook.DefaultRetryPolicy()
	if policy.DeliveryTimeout <= 0 {
		policy.DeliveryTimeout = defaults.DeliveryTimeout
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaults.BaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = defaults.MaxDelay
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaults.MaxAttempts
	}
	if sender == nil {
		sender = NewHTTPSender(policy.DeliveryTimeout)
	}
	return &DeliverUseCase{
		eventRepo: eventRepo,
		sender:    sender,
		policy:    policy,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute runs the delivery state machine for one attempt.
//
// A reached response transitions the event to delivered (2xx) or keeps it
// pending with a backoff-scheduled retry (anything else; the non-2xx branch
// never caps the attempt count). A transport error marks the event failed
// once the attempt number reaches the cap, pending with a retry otherwise.
func (uc *DeliverUseCase) Execute(ctx context.Context, in DeliverInput) (*DeliveryResult, error) {
	start := time.Now()

	event, err := uc.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		return nil, fmt.Errorf("load webhook event: %w", err)
	}

	// A missing row still gets a delivery attempt; there is just no state
	// to persist afterwards.
	attempts := 0
	persist := event != nil
	if event != nil {
		attempts = event.Attempts
	}
	attempt := attempts + 1

	body, err := json.Marshal(in.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	resp, sendErr := uc.send(ctx, in, body)

	now := time.Now().UTC()
	if sendErr != nil {
		return uc.recordTransportError(ctx, in.EventID, attempt, persist, now, start, sendErr)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return uc.recordDelivered(ctx, in.EventID, attempt, persist, now, start, resp.StatusCode)
	}
	return uc.recordHTTPFailure(ctx, in.EventID, attempt, persist, now, start, resp.StatusCode)
}

func (uc *DeliverUseCase) send(ctx context.Context, in DeliverInput, body []byte) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.policy.DeliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, in.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerEventID, in.EventID.String())
	req.Header.Set(headerTimestamp, timestamp)
	if in.WebhookSecret != nil {
		req.Header.Set(headerSignature, Sign(*in.WebhookSecret, timestamp, body))
	}

	return uc.sender.Do(req)
}

// Sign computes the signature header value: "v1=" followed by the hex
// HMAC-SHA256 of "{timestamp}.{body}" keyed with the merchant secret.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return "v1=" + hex.EncodeToString(mac.Sum(nil))
}

func (uc *DeliverUseCase) recordDelivered(ctx context.Context, eventID uuid.UUID, attempt int, persist bool, now, start time.Time, statusCode int) (*DeliveryResult, error) {
	if persist {
		if err := uc.eventRepo.MarkDelivered(ctx, eventID, attempt, now); err != nil {
			return nil, fmt.Errorf("mark delivered: %w", err)
		}
	}
	uc.observe("delivered", attempt, start)
	uc.logger.Info().
		Str("event_id", eventID.String()).
		Int("attempt", attempt).
		Int("status_code", statusCode).
		Msg("webhook delivered")

	return &DeliveryResult{
		Success:     true,
		StatusCode:  &statusCode,
		Attempts:    attempt,
		DeliveredAt: &now,
	}, nil
}

func (uc *DeliverUseCase) recordHTTPFailure(ctx context.Context, eventID uuid.UUID, attempt int, persist bool, now, start time.Time, statusCode int) (*DeliveryResult, error) {
	if persist {
		nextRetry := now.Add(uc.policy.BackoffDelay(attempt))
		if err := uc.eventRepo.ScheduleRetry(ctx, eventID, attempt, now, nextRetry); err != nil {
			return nil, fmt.Errorf("schedule retry: %w", err)
		}
	}
	uc.observe("http_failure", attempt, start)
	uc.logger.Warn().
		Str("event_id", eventID.String()).
		Int("attempt", attempt).
		Int("status_code", statusCode).
		Msg("webhook delivery rejected")

	msg := fmt.Sprintf("HTTP %d", statusCode)
	return &DeliveryResult{
		Success:      false,
		StatusCode:   &statusCode,
		Attempts:     attempt,
		ErrorMessage: &msg,
	}, nil
}

func (uc *DeliverUseCase) recordTransportError(ctx context.Context, eventID uuid.UUID, attempt int, persist bool, now, start time.Time, sendErr error) (*DeliveryResult, error) {
	exhausted := attempt >= uc.policy.MaxAttempts
	if persist {
		if exhausted {
			if err := uc.eventRepo.MarkFailed(ctx, eventID, attempt, now); err != nil {
				return nil, fmt.Errorf("mark failed: %w", err)
			}
		} else {
			nextRetry := now.Add(uc.policy.BackoffDelay(attempt))
			if err := uc.eventRepo.ScheduleRetry(ctx, eventID, attempt, now, nextRetry); err != nil {
				return nil, fmt.Errorf("schedule retry: %w", err)
			}
		}
	}
	uc.observe("transport_error", attempt, start)
	uc.logger.Warn().
		Str("event_id", eventID.String()).
		Int("attempt", attempt).
		Bool("exhausted", exhausted).
		Err(sendErr).
		Msg("webhook delivery failed")

	msg := sendErr.Error()
	return &DeliveryResult{
		Success:      false,
		Attempts:     attempt,
		ErrorMessage: &msg,
	}, nil
}

func (uc *DeliverUseCase) observe(outcome string, attempt int, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.WebhookDeliveriesTotal.WithLabelValues(outcome).Inc()
	uc.metrics.WebhookDeliveryDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	uc.metrics.WebhookAttempts.Observe(float64(attempt))
}
