package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfagundes/storefront/internal/application/shipping"
)

func TestShippingController_Quote(t *testing.T) {
	handler := NewShippingController(shipping.NewQuoteUseCase())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/quote?postal_code="+url.QueryEscape("01310-100"), nil)
	rec := httptest.NewRecorder()
	handler.Quote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ShippingQuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "01310-100", resp.PostalCode)
	require.Len(t, resp.Options, 2)
	assert.Equal(t, "PAC", resp.Options[0].Method)
	assert.InDelta(t, 30.50, resp.Options[0].Price, 0.001)
	assert.Equal(t, "SEDEX", resp.Options[1].Method)
}

func TestShippingController_Quote_InvalidPostalCode(t *testing.T) {
	handler := NewShippingController(shipping.NewQuoteUseCase())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/quote?postal_code=12", nil)
	rec := httptest.NewRecorder()
	handler.Quote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_postal_code", resp.Code)
}

func TestShippingController_Quote_MissingParam(t *testing.T) {
	handler := NewShippingController(shipping.NewQuoteUseCase())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shipping/quote", nil)
	rec := httptest.NewRecorder()
	handler.Quote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
