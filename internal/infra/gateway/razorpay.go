package gateway

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/config"

	razorpay "github.com/razorpay/razorpay-go"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

// razorpay-goのOrderリソースのうち使う部分
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayClient struct {
	orders orderAPI
	keyID  string
}

func NewRazorpayClient(cfg config.Razorpay) *RazorpayClient {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return &RazorpayClient{}
	}
	c := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return &RazorpayClient{orders: c.Order, keyID: cfg.KeyID}
}

func (c *RazorpayClient) KeyID() string {
	return c.keyID
}

// CreateOrder は金額（パイサ）で注文を作ってorder_xxxを返す。
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency string, receipt string) (string, error) {
	if c.orders == nil {
		return "", ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := c.orders.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return "", fmt.Errorf("razorpay create order: empty id in response")
	}
	return id, nil
}
