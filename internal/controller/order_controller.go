package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
)

// OrderController serves the order ledger read side.
type OrderController struct {
	orders order.Repository
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders order.Repository) *OrderController {
	return &OrderController{orders: orders}
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, domainErrors.NewValidationError("id", "cannot be empty"))
		return
	}

	o, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromOrder(o))
}

// ListOrders handles GET /api/v1/orders?user_id=...
func (h *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, domainErrors.NewValidationError("user_id", "query parameter is required"))
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrder(o))
	}
	writeJSON(w, http.StatusOK, resp)
}
