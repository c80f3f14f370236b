package controller

import (
	"time"

	"github.com/google/uuid"
	appWebhook "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/domain/order"
	"github.com/payhub-io/payhub/internal/domain/processor"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (string ids, validation tags).
// Controllers convert them before calling the application layer.

// UpdateOrderStatusRequest holds the input for an order status update.
type UpdateOrderStatusRequest struct {
	Status                 string         `json:"status" validate:"required"`
	ProcessorOrderID       *string        `json:"processor_order_id,omitempty"`
	ProcessorTransactionID *string        `json:"processor_transaction_id,omitempty"`
	RawResponse            map[string]any `json:"raw_response,omitempty"`
	ErrorCode              *string        `json:"error_code,omitempty"`
	ErrorMessage           *string        `json:"error_message,omitempty"`
}

// CreateWebhookEventRequest holds the input for enqueuing a webhook event.
type CreateWebhookEventRequest struct {
	MerchantID string         `json:"merchant_id" validate:"required,uuid"`
	OrderID    *string        `json:"order_id,omitempty" validate:"omitempty,uuid"`
	EventType  string         `json:"event_type" validate:"required"`
	Payload    map[string]any `json:"payload" validate:"required"`
	WorkflowID *string        `json:"workflow_id,omitempty"`
}

// DeliverWebhookRequest holds the input for one delivery attempt.
type DeliverWebhookRequest struct {
	WebhookURL    string         `json:"webhook_url" validate:"required,url"`
	WebhookSecret *string        `json:"webhook_secret,omitempty"`
	Payload       map[string]any `json:"payload" validate:"required"`
}

// --- Response DTOs ---

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID               uuid.UUID      `json:"id"`
	MerchantID       uuid.UUID      `json:"merchant_id"`
	ExternalID       string         `json:"external_id"`
	AmountCents      int64          `json:"amount_cents"`
	Currency         string         `json:"currency"`
	Status           string         `json:"status"`
	Processor        *string        `json:"processor,omitempty"`
	ProcessorOrderID *string        `json:"processor_order_id,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	WorkflowID       *string        `json:"workflow_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// FromOrder maps a domain Order to an OrderResponse.
func FromOrder(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:               o.ID,
		MerchantID:       o.MerchantID,
		ExternalID:       o.ExternalID,
		AmountCents:      o.AmountCents,
		Currency:         o.Currency,
		Status:           string(o.Status),
		Processor:        o.Processor,
		ProcessorOrderID: o.ProcessorOrderID,
		Metadata:         o.Metadata,
		WorkflowID:       o.WorkflowID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// WebhookInfoResponse represents a merchant's webhook endpoint. The signing
// secret itself is never exposed, only whether one exists.
type WebhookInfoResponse struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	WebhookURL string    `json:"webhook_url"`
	HasSecret  bool      `json:"has_secret"`
}

// FromWebhookInfo maps domain WebhookInfo to a WebhookInfoResponse.
func FromWebhookInfo(info *merchant.WebhookInfo) *WebhookInfoResponse {
	return &WebhookInfoResponse{
		MerchantID: info.MerchantID,
		WebhookURL: info.WebhookURL,
		HasSecret:  info.WebhookSecret != nil,
	}
}

// ProcessorConfigResponse represents a decrypted processor configuration.
type ProcessorConfigResponse struct {
	MerchantID  uuid.UUID         `json:"merchant_id"`
	Processor   string            `json:"processor"`
	TestMode    bool              `json:"test_mode"`
	Credentials map[string]string `json:"credentials"`
}

// FromProcessorConfig maps a decrypted config to its response.
func FromProcessorConfig(cfg *processor.MerchantProcessorConfig) *ProcessorConfigResponse {
	return &ProcessorConfigResponse{
		MerchantID:  cfg.MerchantID,
		Processor:   cfg.Processor,
		TestMode:    cfg.TestMode,
		Credentials: cfg.Credentials,
	}
}

// CreatedResponse carries the id of a newly created resource.
type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

// DeliveryResultResponse represents the outcome of one delivery attempt.
type DeliveryResultResponse struct {
	Success      bool       `json:"success"`
	StatusCode   *int       `json:"status_code,omitempty"`
	Attempts     int        `json:"attempts"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// FromDeliveryResult maps a delivery result to its response.
func FromDeliveryResult(res *appWebhook.DeliveryResult) *DeliveryResultResponse {
	return &DeliveryResultResponse{
		Success:      res.Success,
		StatusCode:   res.StatusCode,
		Attempts:     res.Attempts,
		DeliveredAt:  res.DeliveredAt,
		ErrorMessage: res.ErrorMessage,
	}
}
