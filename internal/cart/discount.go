package cart

import "shopfront/internal/model"

// computeDiscount computes the discount a coupon rule yields against a
// cart subtotal. eligible is false when the coupon carries a minimum
// order value the subtotal no longer satisfies; the caller must then
// evict the coupon rather than leave a dangling discount. The discount
// never exceeds the subtotal.
func computeDiscount(subtotal float64, c *model.Coupon) (discount float64, eligible bool) {
	if c == nil {
		return 0, true
	}

	if c.MinOrderValue > 0 && subtotal < c.MinOrderValue {
		return 0, false
	}

	switch c.DiscountType {
	case model.DiscountPercentage:
		discount = subtotal * c.Value / 100
	default:
		discount = c.Value
	}

	if discount > subtotal {
		discount = subtotal
	}
	return discount, true
}
