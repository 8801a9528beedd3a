package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
	"github.com/mfagundes/storefront/internal/domain/order"
)

type paymentRequestDTO struct {
	UserID      string  `json:"user_id"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	Method      string  `json:"payment_method"`
}

type paymentResponseDTO struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// HTTPPaymentGateway talks to the payment processor over HTTP, guarded by a
// circuit breaker. The idempotency key travels as a header so a supervisor
// retry after a crash cannot double-charge.
type HTTPPaymentGateway struct {
	client  *httpClient
	breaker *gobreaker.CircuitBreaker[*PaymentOutcome]
}

// NewHTTPPaymentGateway creates a payment gateway against the given base URL.
func NewHTTPPaymentGateway(baseURL string, timeout time.Duration) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		client:  newHTTPClient("payment-service", baseURL, timeout),
		breaker: newBreaker[*PaymentOutcome]("payment-service"),
	}
}

// SubmitPayment submits the charge exactly once. Any transport or server
// error maps to ErrPaymentUnavailable; the caller never retries.
func (g *HTTPPaymentGateway) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*PaymentOutcome, error) {
	outcome, err := g.breaker.Execute(func() (*PaymentOutcome, error) {
		var dto paymentResponseDTO
		err := g.client.postJSON(ctx, "/payments",
			paymentRequestDTO{
				UserID:      req.UserID,
				TotalAmount: centsToFloat(req.AmountCents),
				Currency:    req.Currency,
				Method:      req.Method,
			},
			map[string]string{"Idempotency-Key": req.IdempotencyKey},
			&dto,
		)
		if err != nil {
			return nil, err
		}
		return &PaymentOutcome{
			PaymentID: dto.PaymentID,
			Status:    paymentStatusFromWire(dto.Status),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrPaymentUnavailable, err)
	}
	return outcome, nil
}

func paymentStatusFromWire(s string) order.PaymentStatus {
	switch s {
	case "approved":
		return order.PaymentApproved
	case "rejected":
		return order.PaymentRejected
	default:
		// Pending, cancelled, or anything the processor invents later.
		return order.PaymentStatus(s)
	}
}
