package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrGatewayNotConfigured is returned when gateway credentials are missing
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

// OrderRequest is the order to create at the gateway. Amount is in minor units.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order descriptor
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

// Gateway creates payment orders
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// RazorpayClient talks to the Razorpay Orders API
type RazorpayClient struct {
	client *resty.Client
	keyID  string
	secret string
}

// NewRazorpayClient creates a client against baseURL
func NewRazorpayClient(baseURL, keyID, secret string) *RazorpayClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetBasicAuth(keyID, secret).
		SetHeader("Content-Type", "application/json")

	return &RazorpayClient{
		client: client,
		keyID:  keyID,
		secret: secret,
	}
}

// CreateOrder posts a new order and returns the gateway descriptor
func (r *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if r.keyID == "" || r.secret == "" {
		return nil, ErrGatewayNotConfigured
	}

	var order Order
	var failure gatewayError

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&failure).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}

	if resp.IsError() {
		description := failure.Error.Description
		if description == "" {
			description = resp.Status()
		}
		return nil, fmt.Errorf("razorpay returned %d: %s", resp.StatusCode(), description)
	}

	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without id")
	}

	return &order, nil
}
