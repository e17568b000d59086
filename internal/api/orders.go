package api

import (
	"context"

	"shopfront/internal/model"
)

// CreateOrder creates an order on the backend. For online payment the
// response identifies the payment-gateway order the checkout widget
// must be invoked with. Requires authentication.
func (c *Client) CreateOrder(ctx context.Context, req *model.CreateOrderRequest, opts ...RequestOption) (*model.CreateOrderResponse, error) {
	var res model.CreateOrderResponse
	if err := c.post(ctx, "/api/orders/create", req, &res, opts...); err != nil {
		return nil, err
	}
	return &res, nil
}

// VerifyPayment submits the gateway's payment confirmation for
// server-side signature verification. Requires authentication.
func (c *Client) VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest, opts ...RequestOption) error {
	return c.post(ctx, "/api/orders/verify", req, nil, opts...)
}

// Orders retrieves the authenticated user's order history.
func (c *Client) Orders(ctx context.Context, opts ...RequestOption) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "/api/orders", &orders, opts...); err != nil {
		return nil, err
	}
	return orders, nil
}
