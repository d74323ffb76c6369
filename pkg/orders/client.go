package orders

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

	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/types"
)

const (
	defaultTimeout              = 15 * time.Second
	responseBodyReadLimit int64 = 64 * 1024
	idempotencyHeader           = "Idempotency-Key"
)

var errEndpointRequired = errors.New("orders endpoint is required")

// Client posts checkout drafts to the order-creation endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a client for the absolute endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errEndpointRequired
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("orders endpoint %q must be an absolute URL", trimmed)
	}

	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// Line is one cart line in the order payload.
type Line struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     types.Money `json:"price"`
	Quantity  int         `json:"quantity"`
	Image     string      `json:"image,omitempty"`
}

// ShippingInfo is the contact and delivery address block of the payload.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
}

// CreateRequest is the order-creation body. Amounts encode as JSON numbers.
type CreateRequest struct {
	Items         []Line       `json:"items"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	PaymentMethod string       `json:"paymentMethod"`
	Subtotal      types.Money  `json:"subtotal"`
	ShippingCost  types.Money  `json:"shippingCost"`
	TaxAmount     types.Money  `json:"taxAmount"`
	Total         types.Money  `json:"total"`
}

type createResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// CreateOrder submits the order and returns the assigned order id. Every
// failure, including a 2xx without an order id, is a DEPENDENCY_ERROR whose
// message is safe to show to the shopper.
func (c *Client) CreateOrder(ctx context.Context, req CreateRequest, idempotencyKey string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "orders client not configured")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal order request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		httpReq.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Could not reach the order service. Please try again.")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order response")
	}

	var decoded createResponse
	decodeErr := json.Unmarshal(body, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("order service returned status %d", resp.StatusCode)
		if decodeErr == nil && strings.TrimSpace(decoded.Message) != "" {
			message = strings.TrimSpace(decoded.Message)
		}
		return "", pkgerrors.New(pkgerrors.CodeDependency, message).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	if decodeErr != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "malformed order service response")
	}
	orderID := strings.TrimSpace(decoded.OrderID)
	if orderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "order service response missing orderId")
	}
	return orderID, nil
}
