package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
)

func TestHTTPCartGateway_GetCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/carts/user-1", r.URL.Path)
		json.NewEncoder(w).Encode(cartDTO{
			UserID:   "user-1",
			Currency: "BRL",
			Items: []cartItemDTO{
				{ProductID: 1, ProductName: "Wireless Headphones", UnitPrice: 10.50, Quantity: 2},
			},
			TotalAmount: 21.00,
		})
	}))
	defer srv.Close()

	gw := NewHTTPCartGateway(srv.URL, time.Second)
	snap, err := gw.GetCart(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", snap.UserID)
	assert.Equal(t, int64(2100), snap.TotalCents)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int64(1050), snap.Items[0].UnitPriceCents)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}

func TestHTTPCartGateway_GetCart_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no cart", http.StatusNotFound)
	}))
	defer srv.Close()

	gw := NewHTTPCartGateway(srv.URL, time.Second)
	_, err := gw.GetCart(context.Background(), "ghost")

	assert.ErrorIs(t, err, domainErrors.ErrCartNotFound)
}

func TestHTTPCartGateway_GetCart_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := NewHTTPCartGateway(srv.URL, time.Second)
	_, err := gw.GetCart(context.Background(), "user-1")

	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)
}

func TestHTTPCartGateway_GetCart_Unreachable(t *testing.T) {
	gw := NewHTTPCartGateway("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := gw.GetCart(context.Background(), "user-1")

	assert.ErrorIs(t, err, domainErrors.ErrCartUnavailable)
}

func TestHTTPCartGateway_ClearCart(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw := NewHTTPCartGateway(srv.URL, time.Second)
	err := gw.ClearCart(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/carts/user-1/clear", gotPath)
}

func TestHTTPPaymentGateway_SubmitPayment(t *testing.T) {
	var gotKey string
	var gotBody paymentRequestDTO
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(paymentResponseDTO{PaymentID: "PAY-0007", Status: "approved"})
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, time.Second)
	outcome, err := gw.SubmitPayment(context.Background(), SubmitPaymentRequest{
		UserID:         "user-1",
		AmountCents:    2100,
		Currency:       "BRL",
		Method:         "pix",
		IdempotencyKey: "key-123",
	})

	require.NoError(t, err)
	assert.Equal(t, "PAY-0007", outcome.PaymentID)
	assert.Equal(t, order.PaymentApproved, outcome.Status)
	assert.Equal(t, "key-123", gotKey)
	assert.InDelta(t, 21.00, gotBody.TotalAmount, 0.001)
	assert.Equal(t, "pix", gotBody.Method)
}

func TestHTTPPaymentGateway_SubmitPayment_UnknownStatusPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(paymentResponseDTO{PaymentID: "PAY-0008", Status: "pending"})
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, time.Second)
	outcome, err := gw.SubmitPayment(context.Background(), SubmitPaymentRequest{
		UserID: "user-1", AmountCents: 100, Currency: "BRL", Method: "boleto", IdempotencyKey: "k",
	})

	require.NoError(t, err)
	assert.Equal(t, order.PaymentStatus("pending"), outcome.Status)
}

func TestHTTPPaymentGateway_SubmitPayment_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := NewHTTPPaymentGateway(srv.URL, time.Second)
	_, err := gw.SubmitPayment(context.Background(), SubmitPaymentRequest{
		UserID: "user-1", AmountCents: 100, Currency: "BRL", Method: "pix", IdempotencyKey: "k",
	})

	assert.ErrorIs(t, err, domainErrors.ErrPaymentUnavailable)
}

func TestHTTPCatalogGateway_ProductName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/4", r.URL.Path)
		json.NewEncoder(w).Encode(productDTO{ID: 4, Name: "Bluetooth Speaker"})
	}))
	defer srv.Close()

	gw := NewHTTPCatalogGateway(srv.URL, time.Second)
	name, err := gw.ProductName(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, "Bluetooth Speaker", name)
}

func TestFloatToCents(t *testing.T) {
	assert.Equal(t, int64(2100), floatToCents(21.00))
	assert.Equal(t, int64(1999), floatToCents(19.99))
	assert.Equal(t, int64(0), floatToCents(0))
	assert.Equal(t, int64(-550), floatToCents(-5.50))
}
