package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	merchantApp "github.com/payhub-io/payhub/internal/application/merchant"
	processorApp "github.com/payhub-io/payhub/internal/application/processor"
)

// MerchantController serves merchant webhook endpoints and decrypted
// processor configurations to processor workflows.
type MerchantController struct {
	webhookInfoUC *merchantApp.GetWebhookInfoUseCase
	configUC      *processorApp.GetConfigUseCase
}

func NewMerchantController(webhookInfoUC *merchantApp.GetWebhookInfoUseCase, configUC *processorApp.GetConfigUseCase) *MerchantController {
	return &MerchantController{
		webhookInfoUC: webhookInfoUC,
		configUC:      configUC,
	}
}

// GetWebhookInfo handles GET /api/v1/merchants/{id}/webhook-info.
// A merchant without a configured webhook URL yields 404: there is nothing
// to deliver to.
func (c *MerchantController) GetWebhookInfo(w http.ResponseWriter, r *http.Request) {
	merchantID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid merchant id", Code: "invalid_id"})
		return
	}

	info, err := c.webhookInfoUC.Execute(r.Context(), merchantID)
	if err != nil {
		writeError(w, err)
		return
	}
	if info == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "merchant webhook not configured", Code: "not_found"})
		return
	}

	writeJSON(w, http.StatusOK, FromWebhookInfo(info))
}

// GetProcessorConfig handles GET /api/v1/merchants/{id}/processors/{processor}/config.
// Credentials are returned decrypted; this endpoint is for trusted internal
// callers only and must never be exposed publicly.
func (c *MerchantController) GetProcessorConfig(w http.ResponseWriter, r *http.Request) {
	merchantID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid merchant id", Code: "invalid_id"})
		return
	}
	processorName := chi.URLParam(r, "processor")

	cfg, err := c.configUC.Execute(r.Context(), merchantID, processorName)
	if err != nil {
		writeError(w, err)
		return
	}
	if cfg == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "processor not configured", Code: "not_found"})
		return
	}

	writeJSON(w, http.StatusOK, FromProcessorConfig(cfg))
}
