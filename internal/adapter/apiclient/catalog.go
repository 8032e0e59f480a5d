package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogAPI = (*Client)(nil)

func (c Client) FetchProducts(
	ctx context.Context, q domain.ProductQuery,
) (*domain.ProductPage, error) {
	const op = "Client.FetchProducts"

	query := url.Values{
		"search":   {q.Search},
		"category": {q.Category},
		"minPrice": {q.MinPrice},
		"maxPrice": {q.MaxPrice},
		"sort":     {q.Sort},
		"limit":    {q.Limit},
		"skip":     {q.Skip},
	}

	var resp *productsResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/products",
		query:  query,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp == nil {
		return nil, nil
	}
	page := resp.toDomain()
	return &page, nil
}

func (c Client) FetchCategories(ctx context.Context) (*[]string, error) {
	const op = "Client.FetchCategories"

	var resp *[]string
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/products/categories",
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}
