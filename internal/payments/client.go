package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrNoKeys means order creation was attempted before the admin saved
// gateway credentials.
var ErrNoKeys = errors.New("payments: gateway keys not configured")

// Order is the gateway's view of a created order.
type Order struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
	Status   string  `json:"status"`
	KeyID    string  `json:"key_id"`
}

// Client wraps interactions with the payment gateway API.
type Client struct {
	baseURL    string
	keys       *KeyStore
	httpClient *http.Client
}

// NewClient constructs a new client.
func NewClient(baseURL string, keys *KeyStore) *Client {
	return &Client{
		baseURL: baseURL,
		keys:    keys,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateOrder opens a gateway order for amount (in rupees). The gateway
// works in paise, so the amount is scaled by 100 on the wire.
func (c *Client) CreateOrder(ctx context.Context, amount float64) (*Order, error) {
	keys, err := c.keys.Load()
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("rcpt_%s", uuid.NewString())
	payload, err := json.Marshal(map[string]any{
		"amount":   int64(amount * 100),
		"currency": "INR",
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("payments: marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/orders", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(keys.KeyID, keys.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payments: create order: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payments: gateway returned status %d", resp.StatusCode)
	}

	var body struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("payments: decode order: %w", err)
	}

	return &Order{
		OrderID:  body.ID,
		Amount:   float64(body.Amount) / 100,
		Currency: body.Currency,
		Receipt:  receipt,
		Status:   body.Status,
		KeyID:    keys.KeyID,
	}, nil
}

// PaymentStatus fetches the gateway status string for one payment.
func (c *Client) PaymentStatus(ctx context.Context, paymentID string) (string, error) {
	keys, err := c.keys.Load()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID), nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(keys.KeyID, keys.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payments: payment status: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("payments: gateway returned status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("payments: decode status: %w", err)
	}
	return body.Status, nil
}
