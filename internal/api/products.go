package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/abisalde/storefront-client/internal/model"
)

func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return c.productList(ctx, "/products/featured", limit)
}

func (c *Client) LatestProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return c.productList(ctx, "/products/latest", limit)
}

func (c *Client) productList(ctx context.Context, path string, limit int) ([]model.Product, error) {
	products := []model.Product{}
	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if err := c.get(ctx, path, query, &products); err != nil {
		return nil, err
	}
	return products, nil
}
