package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/abisalde/storefront-client/internal/model"
)

func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.post(ctx, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UserOrders(ctx context.Context, page, size int) (*model.Page[model.Order], error) {
	var result model.Page[model.Order]
	query := url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
	if err := c.get(ctx, "/orders/user", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelOrder asks the backend to cancel; the response carries no body.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/orders/%d/cancel", orderID), nil, nil)
}
