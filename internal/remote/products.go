package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"

	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/scanner"
)

// lookupTimeout bounds a single product lookup. A slow catalog must not
// stall the scan; the workflow degrades to the sentinel product instead.
const lookupTimeout = 10 * time.Second

// ResolveProduct looks up a barcode in the product catalog. A 404 maps to
// scanner.ErrProductNotFound; hits are cached for a few minutes.
func (c *Client) ResolveProduct(ctx context.Context, barcode string) (*model.Product, error) {
	if cached, ok := c.products.Get(barcode); ok {
		product := cached.(model.Product)
		return &product, nil
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var product model.Product
	err := c.doJSON(ctx, http.MethodGet, "/api/products/"+url.PathEscape(barcode), nil, &product)
	if isNotFound(err) {
		return nil, scanner.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if product.Barcode == "" {
		product.Barcode = barcode
	}
	c.products.Set(barcode, product, cache.DefaultExpiration)
	return &product, nil
}
