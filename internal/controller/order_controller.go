package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	orderApp "github.com/payhub-io/payhub/internal/application/order"
	domainErrors "github.com/payhub-io/payhub/internal/domain/errors"
	"github.com/payhub-io/payhub/internal/domain/order"
)

// OrderController serves order reads and status updates.
type OrderController struct {
	getUC    *orderApp.GetOrderUseCase
	updateUC *orderApp.UpdateOrderStatusUseCase
}

func NewOrderController(getUC *orderApp.GetOrderUseCase, updateUC *orderApp.UpdateOrderStatusUseCase) *OrderController {
	return &OrderController{
		getUC:    getUC,
		updateUC: updateUC,
	}
}

// GetOrder handles GET /api/v1/orders/{id}.
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order id", Code: "invalid_id"})
		return
	}

	o, err := c.getUC.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if o == nil {
		writeError(w, domainErrors.ErrOrderNotFound)
		return
	}

	writeJSON(w, http.StatusOK, FromOrder(o))
}

// UpdateStatus handles POST /api/v1/orders/{id}/status. An unknown order id
// returns 202 all the same: the update is a recorded no-op, and callers are
// not expected to distinguish.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order id", Code: "invalid_id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = c.updateUC.Execute(r.Context(), orderApp.UpdateOrderStatusInput{
		OrderID:          id,
		Status:           order.OrderStatus(req.Status),
		ProcessorOrderID: req.ProcessorOrderID,
		ProcessorTxID:    req.ProcessorTransactionID,
		RawResponse:      req.RawResponse,
		ErrorCode:        req.ErrorCode,
		ErrorMessage:     req.ErrorMessage,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
