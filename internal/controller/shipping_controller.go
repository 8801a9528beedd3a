package controller

import (
	"net/http"

	"github.com/mfagundes/storefront/internal/application/shipping"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

// ShippingController handles shipping quote requests.
type ShippingController struct {
	quoteUC *shipping.QuoteUseCase
}

// NewShippingController creates a new ShippingController.
func NewShippingController(quoteUC *shipping.QuoteUseCase) *ShippingController {
	return &ShippingController{quoteUC: quoteUC}
}

// Quote handles GET /api/v1/shipping/quote?postal_code=...
func (h *ShippingController) Quote(w http.ResponseWriter, r *http.Request) {
	postalCode := r.URL.Query().Get("postal_code")
	if postalCode == "" {
		writeError(w, domainErrors.NewValidationError("postal_code", "query parameter is required"))
		return
	}

	options, err := h.quoteUC.Quote(r.Context(), postalCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromShippingOptions(postalCode, options))
}
