package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/mfagundes/storefront/internal/domain/cart"
	domainErrors "github.com/mfagundes/storefront/internal/domain/errors"
)

type cartItemDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
}

type cartDTO struct {
	UserID      string        `json:"user_id"`
	Items       []cartItemDTO `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	Currency    string        `json:"currency"`
}

// HTTPCartGateway talks to the cart store over HTTP, guarded by a circuit
// breaker.
type HTTPCartGateway struct {
	client  *httpClient
	breaker *gobreaker.CircuitBreaker[*cart.Snapshot]
}

// NewHTTPCartGateway creates a cart gateway against the given base URL.
func NewHTTPCartGateway(baseURL string, timeout time.Duration) *HTTPCartGateway {
	return &HTTPCartGateway{
		client:  newHTTPClient("cart-service", baseURL, timeout),
		breaker: newBreaker[*cart.Snapshot]("cart-service"),
	}
}

// GetCart fetches the user's cart. A 404 maps to ErrCartNotFound; transport
// errors, timeouts and 5xx responses map to ErrCartUnavailable.
func (g *HTTPCartGateway) GetCart(ctx context.Context, userID string) (*cart.Snapshot, error) {
	snap, err := g.breaker.Execute(func() (*cart.Snapshot, error) {
		var dto cartDTO
		if err := g.client.getJSON(ctx, "/carts/"+url.PathEscape(userID), &dto); err != nil {
			return nil, err
		}
		return snapshotFromDTO(&dto), nil
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status == http.StatusNotFound {
			return nil, domainErrors.ErrCartNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrCartUnavailable, err)
	}
	return snap, nil
}

// ClearCart empties the user's cart. The cart store treats clearing an empty
// cart as success, so this call is idempotent.
func (g *HTTPCartGateway) ClearCart(ctx context.Context, userID string) error {
	_, err := g.breaker.Execute(func() (*cart.Snapshot, error) {
		return nil, g.client.delete(ctx, "/carts/"+url.PathEscape(userID)+"/clear")
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrCartUnavailable, err)
	}
	return nil
}

func snapshotFromDTO(dto *cartDTO) *cart.Snapshot {
	items := make([]cart.LineItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, cart.LineItem{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			UnitPriceCents: floatToCents(it.UnitPrice),
			Quantity:       it.Quantity,
		})
	}
	currency := dto.Currency
	if currency == "" {
		currency = "BRL"
	}
	return &cart.Snapshot{
		UserID:     dto.UserID,
		Items:      items,
		TotalCents: floatToCents(dto.TotalAmount),
		Currency:   currency,
	}
}
