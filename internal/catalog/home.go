package catalog

import (
	"context"
	"fmt"

	"github.com/abisalde/storefront-client/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	FeaturedLimit = 4
	LatestLimit   = 8
)

type Backend interface {
	FeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	LatestProducts(ctx context.Context, limit int) ([]model.Product, error)
}

type Home struct {
	Featured []model.Product
	Latest   []model.Product
}

type Catalog struct {
	backend Backend
}

func New(backend Backend) *Catalog {
	return &Catalog{backend: backend}
}

// Home fetches the featured and latest product rails concurrently. Either
// failure fails the whole page.
func (c *Catalog) Home(ctx context.Context) (*Home, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	var home Home
	g.Go(func() error {
		products, err := c.backend.FeaturedProducts(ctx, FeaturedLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch featured products: %w", err)
		}
		home.Featured = products
		return nil
	})
	g.Go(func() error {
		products, err := c.backend.LatestProducts(ctx, LatestLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch latest products: %w", err)
		}
		home.Latest = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}
