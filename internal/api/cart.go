package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/abisalde/storefront-client/internal/model"
)

func (c *Client) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.get(ctx, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (*model.Cart, error) {
	var cart model.Cart
	body := model.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := c.post(ctx, "/cart/add", body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	var cart model.Cart
	query := url.Values{"quantity": []string{strconv.Itoa(quantity)}}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), query, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil, nil)
}
