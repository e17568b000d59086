package api

import (
	"context"

	"shopfront/internal/model"
)

// Coupons retrieves the publicly listed coupons.
func (c *Client) Coupons(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := c.get(ctx, "/api/coupons", &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// ValidateCoupon asks the backend to validate a coupon code against
// the current cart total. On success the returned rule carries the
// discount type, value and minimum order value.
func (c *Client) ValidateCoupon(ctx context.Context, code string, cartTotal float64) (*model.Coupon, error) {
	body := struct {
		Code      string  `json:"code"`
		CartTotal float64 `json:"cartTotal"`
	}{
		Code:      code,
		CartTotal: cartTotal,
	}

	var coupon model.Coupon
	if err := c.post(ctx, "/api/coupons/validate", body, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}
