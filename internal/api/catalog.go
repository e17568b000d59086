package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"shopfront/internal/model"
)

// ProductQuery filters and paginates product listings.
type ProductQuery struct {
	Limit    int
	Offset   int
	Category string
	Search   string
}

// Products retrieves the product catalogue.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	path := "/api/products"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []model.Product
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID retrieves a single product.
func (c *Client) ProductByID(ctx context.Context, id int) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, fmt.Sprintf("/api/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Categories retrieves the product categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.get(ctx, "/api/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Deals retrieves the current deals.
func (c *Client) Deals(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, "/api/products/deals", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductReviews retrieves the reviews for a product.
func (c *Client) ProductReviews(ctx context.Context, productID int) ([]model.Review, error) {
	var reviews []model.Review
	if err := c.get(ctx, fmt.Sprintf("/api/reviews/product/%d", productID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview submits a product review. Requires authentication.
func (c *Client) CreateReview(ctx context.Context, req *model.ReviewRequest, opts ...RequestOption) error {
	return c.post(ctx, "/api/reviews", req, nil, opts...)
}
