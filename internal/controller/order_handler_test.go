package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfagundes/storefront/internal/domain/order"
	"github.com/mfagundes/storefront/internal/testutil"
)

func seedOrder(t *testing.T, repo *testutil.MockOrderRepository, orderID, userID string) *order.Order {
	t.Helper()
	snapshot := testutil.NewTestCart(userID, testutil.NewTestItem(1, "Wireless Headphones", 1000, 1))
	o, err := order.New(orderID, snapshot)
	require.NoError(t, err)
	require.NoError(t, o.MarkApproved("PAY-0001", "ok"))
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

// routeForTest mounts a single handler behind chi so URL params resolve.
func routeForTest(method, pattern string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	return r
}

func TestOrderController_GetOrder(t *testing.T) {
	repo := testutil.NewMockOrderRepository()
	seedOrder(t, repo, "ORD-0042", "user-1")
	router := routeForTest(http.MethodGet, "/api/v1/orders/{id}", NewOrderController(repo).GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-0042", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ORD-0042", resp.OrderID)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "approved", resp.Status)
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	repo := testutil.NewMockOrderRepository()
	router := routeForTest(http.MethodGet, "/api/v1/orders/{id}", NewOrderController(repo).GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-9999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Code)
}

func TestOrderController_ListOrders(t *testing.T) {
	repo := testutil.NewMockOrderRepository()
	seedOrder(t, repo, "ORD-0001", "user-1")
	seedOrder(t, repo, "ORD-0002", "user-1")
	seedOrder(t, repo, "ORD-0003", "someone-else")
	handler := NewOrderController(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	handler.ListOrders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp []OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	for _, o := range resp {
		assert.Equal(t, "user-1", o.UserID)
	}
}

func TestOrderController_ListOrders_MissingUserID(t *testing.T) {
	handler := NewOrderController(testutil.NewMockOrderRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ListOrders(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
