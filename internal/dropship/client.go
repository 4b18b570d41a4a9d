// Package dropship talks to the supplier-side order API used to fulfil
// imported products.
package dropship

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bookbright/electryohype/storage/db"
)

const defaultTimeout = 30 * time.Second

// Client places and tracks orders with a supplier.
type Client interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, supplierOrderID string) (*OrderResponse, error)
}

type Address struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type OrderLine struct {
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name"`
	SourceURL string `json:"source_url,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// OrderRequest is one local order as the supplier expects it. OrderID is
// also sent as the idempotency key.
type OrderRequest struct {
	OrderID  string      `json:"reference"`
	Supplier string      `json:"supplier"`
	ShipTo   Address     `json:"ship_to"`
	Items    []OrderLine `json:"items"`
}

type OrderResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// APIError is a non-2xx reply from the supplier.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supplier API error %d", e.StatusCode)
	}
	return fmt.Sprintf("supplier API error %d: %s", e.StatusCode, e.Message)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient returns a client for the supplier API. With an empty
// apiKey the client runs in mock mode and never makes network calls.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	if apiKey == "" {
		slog.Warn("SUPPLIER_API_KEY not set, supplier orders will be mocked")
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *HTTPClient) IsUsingMockData() bool {
	return c.apiKey == ""
}

func (c *HTTPClient) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	if c.IsUsingMockData() {
		slog.Warn("mock supplier order placed", "order_id", req.OrderID, "supplier", req.Supplier)
		return &OrderResponse{ID: "MOCK-" + req.OrderID, Status: string(db.SupplierOrderStatusSent)}, nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.OrderID)

	return c.do(httpReq)
}

func (c *HTTPClient) GetOrder(ctx context.Context, supplierOrderID string) (*OrderResponse, error) {
	if c.IsUsingMockData() {
		return &OrderResponse{ID: supplierOrderID, Status: string(db.SupplierOrderStatusSent)}, nil
	}

	httpReq, err := c.newRequest(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(supplierOrderID), nil)
	if err != nil {
		return nil, err
	}
	return c.do(httpReq)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) do(req *http.Request) (*OrderResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var out OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("supplier response missing order id")
	}
	return &out, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

// ParseStatus maps supplier status wording onto the local enum. An order
// the supplier has accepted but not started is sent; unknown values are
// treated the same way.
func ParseStatus(s string) db.SupplierOrderStatus {
	switch strings.ToLower(strings.TrimSpace(strings.NewReplacer("-", "_", " ", "_").Replace(s))) {
	case "sent", "pending", "created", "accepted", "received":
		return db.SupplierOrderStatusSent
	case "processing", "in_progress", "confirmed", "paid":
		return db.SupplierOrderStatusProcessing
	case "partially_sent", "partially_shipped", "partial":
		return db.SupplierOrderStatusPartiallySent
	case "shipped", "in_transit", "fulfilled":
		return db.SupplierOrderStatusShipped
	case "delivered", "completed":
		return db.SupplierOrderStatusDelivered
	case "cancelled", "canceled", "refunded":
		return db.SupplierOrderStatusCancelled
	case "failed", "rejected", "error":
		return db.SupplierOrderStatusFailed
	default:
		return db.SupplierOrderStatusSent
	}
}
