package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	webhookApp "github.com/payhub-io/payhub/internal/application/webhook"
	"github.com/payhub-io/payhub/internal/domain/webhook"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/rs/zerolog"
)

func newWebhookRouter(repo *testutil.MockWebhookRepository, sender webhookApp.Sender) *chi.Mux {
	createUC := webhookApp.NewCreateEventUseCase(repo, nil, zerolog.Nop())
	deliverUC := webhookApp.NewDeliverUseCase(repo, sender, webhook.RetryPolicy{}, nil, zerolog.Nop())
	handler := NewWebhookController(createUC, deliverUC)

	r := chi.NewRouter()
	r.Post("/webhook-events", handler.CreateEvent)
	r.Post("/webhook-events/{id}/deliver", handler.Deliver)
	return r
}

func TestWebhookController_CreateEvent(t *testing.T) {
	repo := testutil.NewMockWebhookRepository()
	router := newWebhookRouter(repo, nil)

	reqBody := CreateWebhookEventRequest{
		MerchantID: uuid.New().String(),
		EventType:  "order.captured",
		Payload:    map[string]any{"order_id": uuid.New().String()},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/webhook-events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp CreatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	stored, _ := repo.GetByID(req.Context(), resp.ID)
	if stored == nil {
		t.Fatal("expected event to be stored")
	}
	if stored.Status != webhook.StatusPending {
		t.Errorf("expected status pending, got %s", stored.Status)
	}
	if stored.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", stored.Attempts)
	}
}

func TestWebhookController_CreateEvent_MissingEventType(t *testing.T) {
	router := newWebhookRouter(testutil.NewMockWebhookRepository(), nil)

	reqBody := CreateWebhookEventRequest{
		MerchantID: uuid.New().String(),
		Payload:    map[string]any{"k": "v"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/webhook-events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestWebhookController_Deliver(t *testing.T) {
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer receiver.Close()

	repo := testutil.NewMockWebhookRepository()
	event := testutil.NewTestWebhookEvent(uuid.New(), 0)
	repo.AddEvent(event)
	router := newWebhookRouter(repo, receiver.Client())

	reqBody := DeliverWebhookRequest{
		WebhookURL: receiver.URL,
		Payload:    map[string]any{"event": "order.captured"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/webhook-events/"+event.ID.String()+"/deliver", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp DeliveryResultResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected delivery success, got %+v", resp)
	}
	if resp.Attempts != 1 {
		t.Errorf("expected attempt 1, got %d", resp.Attempts)
	}
}

func TestWebhookController_Deliver_InvalidURL(t *testing.T) {
	router := newWebhookRouter(testutil.NewMockWebhookRepository(), nil)

	reqBody := DeliverWebhookRequest{
		WebhookURL: "not a url",
		Payload:    map[string]any{"k": "v"},
	}
	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/webhook-events/"+uuid.New().String()+"/deliver", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
