package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// httpClient wraps a net/http client shared by the concrete gateways.
// Outbound calls are traced through the otelhttp transport.
type httpClient struct {
	base    string
	client  *http.Client
	service string
}

func newHTTPClient(service, baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		base:    baseURL,
		service: service,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// statusError carries a non-2xx response for the caller to map onto the
// domain taxonomy.
type statusError struct {
	service string
	status  int
	body    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.service, e.status, e.body)
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	return c.do(req, out)
}

func (c *httpClient) postJSON(ctx context.Context, path string, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, out)
}

func (c *httpClient) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	return c.do(req, nil)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{service: c.service, status: resp.StatusCode, body: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.service, err)
	}
	return nil
}

// floatToCents converts a decimal wire amount to cents.
func floatToCents(f float64) int64 {
	if f >= 0 {
		return int64(f*100 + 0.5)
	}
	return int64(f*100 - 0.5)
}

// centsToFloat converts cents to a decimal wire amount.
func centsToFloat(cents int64) float64 {
	return float64(cents) / 100.0
}
