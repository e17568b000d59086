// Package checkout implements order placement: order creation on the
// backend, the payment-gateway handshake for online payment, and the
// post-checkout cart cleanup.
package checkout

import (
	"context"
	"fmt"

	"shopfront/internal/api"
	"shopfront/internal/cart"
	"shopfront/internal/model"
	"shopfront/internal/session"

	"github.com/rs/zerolog"
)

// PaymentOrder identifies a gateway order to collect payment for.
type PaymentOrder struct {
	ID       string
	Amount   float64
	Currency string
}

// PaymentConfirmation is the gateway's proof of payment, forwarded to
// the backend for signature verification.
type PaymentConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// PaymentGateway collects an online payment for a gateway order. The
// gateway is an opaque external collaborator; implementations wrap
// whatever widget or SDK the deployment uses.
type PaymentGateway interface {
	Collect(ctx context.Context, order PaymentOrder) (*PaymentConfirmation, error)
}

// UnavailableGateway is a PaymentGateway for deployments without an
// online payment integration; Collect always fails, leaving
// cash-on-delivery as the only payment path.
type UnavailableGateway struct{}

func (UnavailableGateway) Collect(context.Context, PaymentOrder) (*PaymentConfirmation, error) {
	return nil, fmt.Errorf("no payment gateway configured")
}

// Service places orders for the authenticated user.
type Service struct {
	client  *api.Client
	session *session.Manager
	cart    *cart.Engine
	gateway PaymentGateway
	logger  zerolog.Logger
}

// NewService creates a checkout service.
func NewService(client *api.Client, sess *session.Manager, engine *cart.Engine, gateway PaymentGateway, logger zerolog.Logger) *Service {
	return &Service{
		client:  client,
		session: sess,
		cart:    engine,
		gateway: gateway,
		logger:  logger.With().Str("component", "checkout").Logger(),
	}
}

// PlaceOrder creates an order for the current cart. Cash-on-delivery
// orders complete on creation; online orders run the gateway
// handshake and the server-side verification first. The cart and
// coupon are cleared only once the order is final.
func (s *Service) PlaceOrder(ctx context.Context, address, paymentMethod string) (*model.CreateOrderResponse, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	req := &model.CreateOrderRequest{
		Items:         orderItems,
		TotalAmount:   s.cart.Total(),
		Address:       address,
		PaymentMethod: paymentMethod,
	}
	if coupon := s.cart.Coupon(); coupon != nil {
		req.CouponCode = coupon.Code
	}

	var res *model.CreateOrderResponse
	err := s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		var err error
		res, err = s.client.CreateOrder(ctx, req, bearer)
		return err
	})
	if err != nil {
		return nil, err
	}

	if paymentMethod == model.PaymentCOD {
		s.logger.Info().Str("gateway_order", res.ID).Msg("cash-on-delivery order placed")
		return res, s.finalize()
	}

	confirmation, err := s.gateway.Collect(ctx, PaymentOrder{
		ID:       res.ID,
		Amount:   res.Amount,
		Currency: res.Currency,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("gateway_order", res.ID).Msg("payment collection failed")
		return nil, err
	}

	verify := &model.VerifyPaymentRequest{
		GatewayOrderID:   confirmation.OrderID,
		GatewayPaymentID: confirmation.PaymentID,
		GatewaySignature: confirmation.Signature,
		CartItems:        items,
		TotalAmount:      req.TotalAmount,
		Address:          address,
	}
	err = s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		return s.client.VerifyPayment(ctx, verify, bearer)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("gateway_order", res.ID).Msg("payment verification failed")
		return nil, err
	}

	s.logger.Info().Str("gateway_order", res.ID).Msg("payment verified, order placed")
	return res, s.finalize()
}

// Orders retrieves the authenticated user's order history.
func (s *Service) Orders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		var err error
		orders, err = s.client.Orders(ctx, bearer)
		return err
	})
	return orders, err
}

// finalize empties the cart and drops the coupon after a completed order.
func (s *Service) finalize() error {
	if err := s.cart.RemoveCoupon(); err != nil {
		return err
	}
	return s.cart.Clear()
}
