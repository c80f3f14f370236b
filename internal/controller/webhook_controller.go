package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
)

// WebhookController serves webhook event creation and on-demand delivery.
type WebhookController struct {
	createUC  *webhookApp.CreateEventUseCase
	deliverUC *webhookApp.DeliverUseCase
}

func NewWebhookController(createUC *webhookApp.CreateEventUseCase, deliverUC *webhookApp.DeliverUseCase) *WebhookController {
	return &WebhookController{
		createUC:  createUC,
		deliverUC: deliverUC,
	}
}

// CreateEvent handles POST /api/v1/webhook-events.
func (c *WebhookController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateWebhookEventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid merchant_id", Code: "invalid_id"})
		return
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order_id", Code: "invalid_id"})
			return
		}
		orderID = &id
	}

	id, err := c.createUC.Execute(r.Context(), webhookApp.CreateEventInput{
		MerchantID: merchantID,
		OrderID:    orderID,
		EventType:  req.EventType,
		Payload:    req.Payload,
		WorkflowID: req.WorkflowID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// Deliver handles POST /api/v1/webhook-events/{id}/deliver. It performs
// exactly one delivery attempt; a failed attempt is still a 200 with
// success=false, since the outcome was recorded as requested.
func (c *WebhookController) Deliver(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid event id", Code: "invalid_id"})
		return
	}

	var req DeliverWebhookRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := c.deliverUC.Execute(r.Context(), webhookApp.DeliverInput{
		EventID:       eventID,
		WebhookURL:    req.WebhookURL,
		WebhookSecret: req.WebhookSecret,
		Payload:       req.Payload,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromDeliveryResult(result))
}
