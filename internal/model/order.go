package model

import "time"

// Payment methods accepted at checkout.
const (
	PaymentOnline = "ONLINE"
	PaymentCOD    = "COD"
)

// Order represents a placed order as returned by the order history
// endpoint.
type Order struct {
	ID            int         `json:"id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt,omitempty"`
}

// OrderItem represents a line item within a placed order.
type OrderItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CreateOrderRequest is the payload for the order creation endpoint.
// Items carry the cart line items with their product IDs; TotalAmount
// is the discounted total the client computed.
type CreateOrderRequest struct {
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	CouponCode    string      `json:"couponCode,omitempty"`
}

// CreateOrderResponse is returned by order creation. For online
// payment the ID, Amount and Currency identify the gateway order the
// payment widget must be invoked with.
type CreateOrderResponse struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	OrderID  int     `json:"orderId,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// VerifyPaymentRequest carries the gateway's confirmation back to the
// server for signature verification.
type VerifyPaymentRequest struct {
	GatewayOrderID   string     `json:"razorpay_order_id"`
	GatewayPaymentID string     `json:"razorpay_payment_id"`
	GatewaySignature string     `json:"razorpay_signature"`
	CartItems        []CartItem `json:"cartItems"`
	TotalAmount      float64    `json:"totalAmount"`
	Address          string     `json:"address"`
}
