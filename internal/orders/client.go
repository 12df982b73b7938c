package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medisupply/mobile/internal/cart"
	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// Item is one order line on the wire.
type Item struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Order is the submission payload.
type Order struct {
	CustomerID string `json:"customer_id"`
	Items      []Item `json:"items"`
}

// Receipt is the backend's acknowledgement.
type Receipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client submits orders.
type Client interface {
	Submit(ctx context.Context, order Order) (*Receipt, error)
}

type client struct {
	httpClient *resty.Client
}

func NewClient(cfg config.OrdersConfig, baseURL string) Client {
	return &client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(time.Duration(cfg.Timeout) * time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// Submit posts the order with a fresh idempotency key so a retried request
// cannot create a duplicate order server-side.
func (c *client) Submit(ctx context.Context, order Order) (*Receipt, error) {
	key := uuid.NewString()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", key).
		SetBody(order).
		Post("")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, &domain.NetworkError{Err: err}
	}

	if resp.IsError() {
		return nil, &domain.HTTPError{StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	var receipt Receipt
	if err := json.Unmarshal([]byte(resp.String()), &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode order receipt: %w", err)
	}

	log.Infof("✅ Order %s submitted (%s)", receipt.ID, receipt.Status)
	return &receipt, nil
}

// ItemsFromCart converts cart lines into order items.
func ItemsFromCart(lines []cart.Line) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, Item{SKU: line.SKU, Qty: line.Quantity})
	}
	return items
}
