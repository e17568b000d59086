package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/cart"
	"shopfront/internal/config"
	"shopfront/internal/model"
	"shopfront/internal/session"
	"shopfront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Collect(ctx context.Context, order PaymentOrder) (*PaymentConfirmation, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentConfirmation), args.Error(1)
}

// orderBackend fakes the auth and order endpoints.
type orderBackend struct {
	mux        *http.ServeMux
	created    *model.CreateOrderRequest
	verified   *model.VerifyPaymentRequest
	failVerify bool
}

func newOrderBackend() *orderBackend {
	b := &orderBackend{mux: http.NewServeMux()}

	b.mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.LoginResponse{Token: "tok", User: model.User{ID: 1}})
	})

	b.mux.HandleFunc("/api/orders/create", func(w http.ResponseWriter, r *http.Request) {
		var req model.CreateOrderRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.created = &req
		json.NewEncoder(w).Encode(model.CreateOrderResponse{
			ID:       "order_abc",
			Amount:   req.TotalAmount,
			Currency: "INR",
		})
	})

	b.mux.HandleFunc("/api/orders/verify", func(w http.ResponseWriter, r *http.Request) {
		if b.failVerify {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Signature mismatch"})
			return
		}
		var req model.VerifyPaymentRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.verified = &req
		json.NewEncoder(w).Encode(map[string]string{"message": "Payment verified"})
	})

	return b
}

func newTestService(t *testing.T, backend *orderBackend, gateway PaymentGateway) (*Service, *cart.Engine, *session.Manager) {
	t.Helper()
	server := httptest.NewServer(backend.mux)
	t.Cleanup(server.Close)

	client := api.New(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, zerolog.Nop())
	store := storage.NewMemStore()
	sess := session.NewManager(client, store, zerolog.Nop())

	engine, err := cart.NewEngine(store, client, zerolog.Nop())
	require.NoError(t, err)

	return NewService(client, sess, engine, gateway, zerolog.Nop()), engine, sess
}

func TestService_PlaceOrder_EmptyCart(t *testing.T) {
	svc, _, sess := newTestService(t, newOrderBackend(), UnavailableGateway{})
	_, err := sess.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), "12 High St", model.PaymentCOD)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestService_PlaceOrder_Guest(t *testing.T) {
	svc, engine, _ := newTestService(t, newOrderBackend(), UnavailableGateway{})
	require.NoError(t, engine.Add(model.CartItem{ID: 1, Price: 10, Quantity: 1}))

	_, err := svc.PlaceOrder(context.Background(), "12 High St", model.PaymentCOD)
	assert.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Len(t, engine.Items(), 1, "cart untouched when order fails")
}

func TestService_PlaceOrder_COD(t *testing.T) {
	backend := newOrderBackend()
	svc, engine, sess := newTestService(t, backend, UnavailableGateway{})
	_, err := sess.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, engine.Add(model.CartItem{ID: 1, Name: "Mug", Price: 10, Quantity: 2}))

	res, err := svc.PlaceOrder(context.Background(), "12 High St", model.PaymentCOD)
	require.NoError(t, err)
	assert.Equal(t, "order_abc", res.ID)

	require.NotNil(t, backend.created)
	assert.Equal(t, model.PaymentCOD, backend.created.PaymentMethod)
	assert.Equal(t, 20.0, backend.created.TotalAmount)
	assert.Equal(t, "12 High St", backend.created.Address)
	require.Len(t, backend.created.Items, 1)
	assert.Equal(t, 1, backend.created.Items[0].ProductID)

	assert.Empty(t, engine.Items(), "cart cleared after completed order")
	assert.Nil(t, engine.Coupon())
}

func TestService_PlaceOrder_OnlineVerified(t *testing.T) {
	backend := newOrderBackend()
	gateway := new(MockGateway)
	svc, engine, sess := newTestService(t, backend, gateway)
	_, err := sess.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, engine.Add(model.CartItem{ID: 1, Price: 50, Quantity: 1}))

	gateway.On("Collect", mock.Anything, PaymentOrder{ID: "order_abc", Amount: 50, Currency: "INR"}).
		Return(&PaymentConfirmation{OrderID: "order_abc", PaymentID: "pay_1", Signature: "sig"}, nil)

	_, err = svc.PlaceOrder(context.Background(), "12 High St", model.PaymentOnline)
	require.NoError(t, err)

	require.NotNil(t, backend.verified)
	assert.Equal(t, "order_abc", backend.verified.GatewayOrderID)
	assert.Equal(t, "pay_1", backend.verified.GatewayPaymentID)
	assert.Equal(t, "sig", backend.verified.GatewaySignature)

	assert.Empty(t, engine.Items())
	gateway.AssertExpectations(t)
}

func TestService_PlaceOrder_GatewayFailureKeepsCart(t *testing.T) {
	backend := newOrderBackend()
	svc, engine, sess := newTestService(t, backend, UnavailableGateway{})
	_, err := sess.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, engine.Add(model.CartItem{ID: 1, Price: 50, Quantity: 1}))

	_, err = svc.PlaceOrder(context.Background(), "12 High St", model.PaymentOnline)
	require.Error(t, err)
	assert.Len(t, engine.Items(), 1)
}

func TestService_PlaceOrder_VerifyFailureKeepsCart(t *testing.T) {
	backend := newOrderBackend()
	backend.failVerify = true
	gateway := new(MockGateway)
	svc, engine, sess := newTestService(t, backend, gateway)
	_, err := sess.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, engine.Add(model.CartItem{ID: 1, Price: 50, Quantity: 1}))

	gateway.On("Collect", mock.Anything, mock.Anything).
		Return(&PaymentConfirmation{OrderID: "order_abc", PaymentID: "pay_1", Signature: "bad"}, nil)

	_, err = svc.PlaceOrder(context.Background(), "12 High St", model.PaymentOnline)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Signature mismatch")
	assert.Len(t, engine.Items(), 1)
}
