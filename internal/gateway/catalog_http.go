package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

type productDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HTTPCatalogGateway resolves product names from the catalog service.
type HTTPCatalogGateway struct {
	client  *httpClient
	breaker *gobreaker.CircuitBreaker[string]
}

// NewHTTPCatalogGateway creates a catalog gateway against the given base URL.
func NewHTTPCatalogGateway(baseURL string, timeout time.Duration) *HTTPCatalogGateway {
	return &HTTPCatalogGateway{
		client:  newHTTPClient("catalog-service", baseURL, timeout),
		breaker: newBreaker[string]("catalog-service"),
	}
}

// ProductName returns the display name for a product id.
func (g *HTTPCatalogGateway) ProductName(ctx context.Context, productID int64) (string, error) {
	return g.breaker.Execute(func() (string, error) {
		var dto productDTO
		if err := g.client.getJSON(ctx, fmt.Sprintf("/products/%d", productID), &dto); err != nil {
			return "", err
		}
		return dto.Name, nil
	})
}
