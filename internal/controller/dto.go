package controller

import (
	"math"
	"time"

	"github.com/mfagundes/storefront/internal/application/recommendation"
	"github.com/mfagundes/storefront/internal/application/shipping"
	"github.com/mfagundes/storefront/internal/domain/order"
)

// --- Request DTOs ---
// DTOs carry HTTP/JSON concerns (float64 for money, validation tags).
// Controllers convert them before touching the use cases.

// CheckoutRequest holds the input for starting a checkout.
type CheckoutRequest struct {
	UserID              string `json:"user_id" validate:"required"`
	PaymentMethod       string `json:"payment_method" validate:"required,oneof=pix credit_card debit_card boleto"`
	ShippingSelectionID string `json:"shipping_selection_id,omitempty"`
}

// --- Response DTOs ---

// OrderItemResponse represents one purchased line in API responses.
type OrderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	OrderID     string              `json:"order_id"`
	UserID      string              `json:"user_id"`
	TotalAmount float64             `json:"total_amount"`
	Currency    string              `json:"currency"`
	Items       []OrderItemResponse `json:"items"`
	Status      string              `json:"status"`
	Message     string              `json:"message"`
	PaymentID   string              `json:"payment_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ShippingOptionResponse represents one delivery option.
type ShippingOptionResponse struct {
	Method       string  `json:"method"`
	DeliveryDays int     `json:"delivery_days"`
	Price        float64 `json:"price"`
}

// ShippingQuoteResponse represents a shipping quote.
type ShippingQuoteResponse struct {
	PostalCode string                   `json:"postal_code"`
	Options    []ShippingOptionResponse `json:"options"`
}

// RecommendationItemResponse represents one suggested product.
type RecommendationItemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Reason    string  `json:"reason"`
	Score     float64 `json:"score"`
}

// RecommendationsResponse represents the suggestion list for a user.
type RecommendationsResponse struct {
	UserID          string                       `json:"user_id"`
	Recommendations []RecommendationItemResponse `json:"recommendations"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromOrder converts a domain order to API response.
func FromOrder(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   centsToFloat(item.UnitPriceCents),
			Quantity:    item.Quantity,
		})
	}
	return &OrderResponse{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		TotalAmount: centsToFloat(o.TotalCents),
		Currency:    o.Currency,
		Items:       items,
		Status:      string(o.Status),
		Message:     o.Message,
		PaymentID:   o.PaymentID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// FromShippingOptions converts quote options to API response.
func FromShippingOptions(postalCode string, options []shipping.Option) *ShippingQuoteResponse {
	resp := &ShippingQuoteResponse{
		PostalCode: postalCode,
		Options:    make([]ShippingOptionResponse, 0, len(options)),
	}
	for _, opt := range options {
		resp.Options = append(resp.Options, ShippingOptionResponse{
			Method:       opt.Method,
			DeliveryDays: opt.DeliveryDays,
			Price:        centsToFloat(opt.PriceCents),
		})
	}
	return resp
}

// FromRecommendations converts suggestions to API response.
func FromRecommendations(userID string, recs []recommendation.Recommendation) *RecommendationsResponse {
	resp := &RecommendationsResponse{
		UserID:          userID,
		Recommendations: make([]RecommendationItemResponse, 0, len(recs)),
	}
	for _, rec := range recs {
		resp.Recommendations = append(resp.Recommendations, RecommendationItemResponse{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Reason:    rec.Reason,
			Score:     rec.Score,
		})
	}
	return resp
}

func centsToFloat(cents int64) float64 {
	return math.Round(float64(cents)) / 100
}
