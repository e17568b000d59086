package model

// Discount types supported by the coupon engine.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// CartItem represents a line item in the shopping cart.
// At most one CartItem exists per product ID; absence is represented
// by removal, never by a zero quantity.
type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Coupon holds the discount rule returned by the coupon validation
// endpoint. A coupon with MinOrderValue > 0 is only retained while the
// cart subtotal meets that threshold.
type Coupon struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	Value         float64 `json:"value"`
	MinOrderValue float64 `json:"minOrderValue"`
}

// WishlistItem represents a product saved in the authenticated user's
// wishlist. The remote service owns the list; local state is a cache.
type WishlistItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}
