package api

import (
	"context"
	"fmt"

	"shopfront/internal/model"
)

// wishlistEntry is the backend's wishlist envelope: a record id plus
// the embedded product.
type wishlistEntry struct {
	ID      int `json:"id"`
	Product struct {
		ID       int     `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		ImageURL string  `json:"imageUrl"`
		Category string  `json:"category"`
		Stock    int     `json:"stock"`
	} `json:"Product"`
}

// Wishlist retrieves the authenticated user's wishlist, flattened to
// the product view the storefront works with.
func (c *Client) Wishlist(ctx context.Context, opts ...RequestOption) ([]model.WishlistItem, error) {
	var entries []wishlistEntry
	if err := c.get(ctx, "/api/wishlist", &entries, opts...); err != nil {
		return nil, err
	}

	items := make([]model.WishlistItem, len(entries))
	for i, e := range entries {
		items[i] = model.WishlistItem{
			ID:       e.Product.ID,
			Name:     e.Product.Name,
			Price:    e.Product.Price,
			Image:    e.Product.ImageURL,
			Category: e.Product.Category,
			Stock:    e.Product.Stock,
		}
	}
	return items, nil
}

// WishlistAdd adds a product to the authenticated user's wishlist.
func (c *Client) WishlistAdd(ctx context.Context, productID int, opts ...RequestOption) error {
	body := struct {
		ProductID int `json:"productId"`
	}{ProductID: productID}
	return c.post(ctx, "/api/wishlist", body, nil, opts...)
}

// WishlistRemove removes a product from the authenticated user's wishlist.
func (c *Client) WishlistRemove(ctx context.Context, productID int, opts ...RequestOption) error {
	return c.delete(ctx, fmt.Sprintf("/api/wishlist/%d", productID), opts...)
}
