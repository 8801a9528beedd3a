package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart"},
	{domainErrors.ErrCartNotFound, http.StatusNotFound, "cart_not_found"},
	{domainErrors.ErrCartUnavailable, http.StatusServiceUnavailable, "cart_unavailable"},
	{domainErrors.ErrPaymentUnavailable, http.StatusServiceUnavailable, "payment_unavailable"},
	{domainErrors.ErrCheckoutInProgress, http.StatusConflict, "checkout_in_progress"},
	{domainErrors.ErrOrderNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
	{domainErrors.ErrInvalidPostalCode, http.StatusBadRequest, "invalid_postal_code"},
	{domainErrors.ErrNoShippingOptions, http.StatusNotFound, "no_shipping_options"},
	{domainErrors.ErrDuplicateIdempotencyKey, http.StatusConflict, "duplicate_request"},
	{domainErrors.ErrLockAcquisitionFailed, http.StatusServiceUnavailable, "lock_unavailable"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	// A persist failure after a payment decision is deliberately 500: the
	// client must not retry blindly, the payment may already be captured.
	if errors.Is(err, domainErrors.ErrOrderPersistFailed) {
		resp.Code = "order_persist_failed"
		resp.Error = "order could not be recorded, do not retry; contact support"
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}
