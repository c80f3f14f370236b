package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	merchantApp "github.com/payhub-io/payhub/internal/application/merchant"
	processorApp "github.com/payhub-io/payhub/internal/application/processor"
	"github.com/payhub-io/payhub/internal/domain/merchant"
	"github.com/payhub-io/payhub/internal/infrastructure/vault"
	"github.com/payhub-io/payhub/internal/testutil"
	"github.com/rs/zerolog"
)

func newMerchantRouter(merchantRepo *testutil.MockMerchantRepository, configRepo *testutil.MockProcessorConfigRepository, v *vault.Vault) *chi.Mux {
	webhookInfoUC := merchantApp.NewGetWebhookInfoUseCase(merchantRepo)
	configUC := processorApp.NewGetConfigUseCase(configRepo, v, zerolog.Nop())
	handler := NewMerchantController(webhookInfoUC, configUC)

	r := chi.NewRouter()
	r.Get("/merchants/{id}/webhook-info", handler.GetWebhookInfo)
	r.Get("/merchants/{id}/processors/{processor}/config", handler.GetProcessorConfig)
	return r
}

func TestMerchantController_GetWebhookInfo(t *testing.T) {
	merchantRepo := testutil.NewMockMerchantRepository()
	merchantID := uuid.New()
	secret := "whsec_test"
	merchantRepo.AddWebhookInfo(&merchant.WebhookInfo{
		MerchantID:    merchantID,
		WebhookURL:    "https://merchant.example.com/hooks",
		WebhookSecret: &secret,
	})
	router := newMerchantRouter(merchantRepo, testutil.NewMockProcessorConfigRepository(), vault.New("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/merchants/"+merchantID.String()+"/webhook-info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	raw := rec.Body.String()
	var resp WebhookInfoResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.WebhookURL != "https://merchant.example.com/hooks" {
		t.Errorf("unexpected webhook url %s", resp.WebhookURL)
	}
	if !resp.HasSecret {
		t.Error("expected has_secret true")
	}
	if strings.Contains(raw, secret) {
		t.Error("signing secret leaked into response body")
	}
}

func TestMerchantController_GetWebhookInfo_NotConfigured(t *testing.T) {
	router := newMerchantRouter(testutil.NewMockMerchantRepository(), testutil.NewMockProcessorConfigRepository(), vault.New("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/merchants/"+uuid.New().String()+"/webhook-info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestMerchantController_GetProcessorConfig(t *testing.T) {
	v := vault.New("test-secret")
	envelope, err := v.Encrypt([]byte(`{"api_key":"sk_test_123","endpoint_secret":"whsec_456"}`))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	configRepo := testutil.NewMockProcessorConfigRepository()
	merchantID := uuid.New()
	configRepo.AddConfig(testutil.NewTestProcessorConfig(merchantID, "stripe", envelope))
	router := newMerchantRouter(testutil.NewMockMerchantRepository(), configRepo, v)

	req := httptest.NewRequest(http.MethodGet, "/merchants/"+merchantID.String()+"/processors/stripe/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp ProcessorConfigResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Credentials["api_key"] != "sk_test_123" {
		t.Errorf("unexpected credentials %v", resp.Credentials)
	}
}

func TestMerchantController_GetProcessorConfig_NotConfigured(t *testing.T) {
	router := newMerchantRouter(testutil.NewMockMerchantRepository(), testutil.NewMockProcessorConfigRepository(), vault.New("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/merchants/"+uuid.New().String()+"/processors/adyen/config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
