package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tb453/shopadmin/internal/domain"
)

// InitialData is what every view needs on startup
type InitialData struct {
	Products []domain.Product
	Sales    []domain.Sale
}

// LoadInitial fetches products and sales concurrently. The first error
// cancels the other request.
func LoadInitial(ctx context.Context, products *ProductService, sales *SalesService) (InitialData, error) {
	var data InitialData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := products.FetchProducts(ctx)
		if err != nil {
			return err
		}
		data.Products = p
		return nil
	})
	g.Go(func() error {
		s, err := sales.FetchSales(ctx)
		if err != nil {
			return err
		}
		data.Sales = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return InitialData{}, err
	}
	return data, nil
}
