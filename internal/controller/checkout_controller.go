package controller

import (
	"net/http"
	"time"

	"github.com/mfagundes/storefront/internal/application/checkout"
	"github.com/mfagundes/storefront/internal/infrastructure/observability"
)

// CheckoutController handles checkout HTTP requests.
type CheckoutController struct {
	checkoutUC *checkout.UseCase
	metrics    *observability.Metrics
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutUC *checkout.UseCase, metrics *observability.Metrics) *CheckoutController {
	return &CheckoutController{checkoutUC: checkoutUC, metrics: metrics}
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	if h.metrics != nil {
		h.metrics.ActiveCheckouts.Inc()
		defer h.metrics.ActiveCheckouts.Dec()
	}

	o, err := h.checkoutUC.Execute(r.Context(), checkout.Request{
		UserID:              req.UserID,
		PaymentMethod:       req.PaymentMethod,
		ShippingSelectionID: req.ShippingSelectionID,
	})

	if h.metrics != nil {
		outcome := "failed"
		if err == nil {
			outcome = string(o.Status)
		}
		h.metrics.CheckoutsTotal.WithLabelValues(outcome).Inc()
		h.metrics.CheckoutDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersTotal.WithLabelValues(string(o.Status)).Inc()
		h.metrics.OrderAmountCents.WithLabelValues(o.Currency).Observe(float64(o.TotalCents))
	}

	writeJSON(w, http.StatusCreated, FromOrder(o))
}
