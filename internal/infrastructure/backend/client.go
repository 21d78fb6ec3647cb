package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
)

// ErrUnavailable indicates the commerce API could not be reached at all
var ErrUnavailable = errors.New("backend: unavailable")

// APIError carries an HTTP error status returned by the commerce API along
// with the backend's own message, which callers surface verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s", e.StatusCode, e.Message)
}

// Client is the HTTP client for the upstream commerce API
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxResponseSize int64
	retryAttempts   int
	retryDelay      time.Duration
	logger          *zap.Logger
}

// NewClient creates a commerce API client. Outbound requests are traced
// through the otelhttp transport.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxResponseSize: cfg.MaxResponseBytes(),
		retryAttempts:   cfg.RetryAttempts,
		retryDelay:      cfg.RetryDelay,
		logger:          logger,
	}
}

// BaseURL returns the configured base URL with any trailing slash removed
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ---------------------------------------------------------------------------
// Storefront Operations
// ---------------------------------------------------------------------------

// FetchProducts retrieves the full product list. Transport failures are
// retried with a delay; HTTP error statuses are authoritative and are not.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
			c.logger.Warn("retrying product fetch",
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
		}

		body, err := c.doRequest(ctx, http.MethodGet, "/api/products", "", nil)
		if err != nil {
			if !errors.Is(err, ErrUnavailable) {
				return nil, err
			}
			lastErr = err
			continue
		}
		return decodeProducts(body)
	}
	return nil, lastErr
}

// SubmitOrder posts a checkout submission and returns the created order.
// There are no retries here: a timed-out create may still have been applied
// upstream, and replaying it would place the order twice.
func (c *Client) SubmitOrder(ctx context.Context, sub checkout.Submission) (*order.Order, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/orders", "", sub)
	if err != nil {
		return nil, err
	}

	var record orderRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("backend: failed to parse order response: %w", err)
	}
	o := record.toDomain()
	return &o, nil
}

// ---------------------------------------------------------------------------
// Admin Operations
// ---------------------------------------------------------------------------

// ListProducts retrieves the product list on behalf of an admin caller
func (c *Client) ListProducts(ctx context.Context, token string) ([]catalog.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/products", token, nil)
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

// CreateProduct creates a product through the admin API
func (c *Client) CreateProduct(ctx context.Context, token string, input catalog.ProductInput) (*catalog.Product, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/products", token, newProductPayload(input))
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// UpdateProduct updates a product through the admin API
func (c *Client) UpdateProduct(ctx context.Context, token, productID string, input catalog.ProductInput) (*catalog.Product, error) {
	path := "/api/products/" + url.PathEscape(productID)
	body, err := c.doRequest(ctx, http.MethodPatch, path, token, newProductPayload(input))
	if err != nil {
		return nil, err
	}
	return decodeProduct(body)
}

// DeleteProduct deletes a product through the admin API
func (c *Client) DeleteProduct(ctx context.Context, token, productID string) error {
	path := "/api/products/" + url.PathEscape(productID)
	_, err := c.doRequest(ctx, http.MethodDelete, path, token, nil)
	return err
}

// ListOrders retrieves all orders for the admin dashboard
func (c *Client) ListOrders(ctx context.Context, token string) ([]order.Order, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/orders", token, nil)
	if err != nil {
		return nil, err
	}

	var records []orderRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("backend: failed to parse order list: %w", err)
	}
	orders := make([]order.Order, 0, len(records))
	for _, r := range records {
		orders = append(orders, r.toDomain())
	}
	return orders, nil
}

// UpdateOrderStatus updates an order's status through the admin API.
// The backend stays authoritative: its response carries the status that
// actually applied.
func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID string, status order.Status) (*order.Order, error) {
	path := "/api/orders/" + url.PathEscape(orderID) + "/status"
	body, err := c.doRequest(ctx, http.MethodPatch, path, token, statusPayload{Status: status.String()})
	if err != nil {
		return nil, err
	}

	var record orderRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("backend: failed to parse order response: %w", err)
	}
	o := record.toDomain()
	return &o, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an HTTP request against the commerce API
func (c *Client) doRequest(ctx context.Context, method, path, token string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    parseErrorMessage(body, resp.StatusCode),
		}
	}

	return body, nil
}

func decodeProducts(body []byte) ([]catalog.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("backend: failed to parse product list: %w", err)
	}
	products := make([]catalog.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toDomain())
	}
	return products, nil
}

func decodeProduct(body []byte) (*catalog.Product, error) {
	var record productRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("backend: failed to parse product: %w", err)
	}
	p := record.toDomain()
	return &p, nil
}

// parseErrorMessage extracts the backend's error message from a failure
// body, falling back to the generic status text.
func parseErrorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return http.StatusText(status)
}
