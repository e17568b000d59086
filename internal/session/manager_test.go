package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/config"
	"shopfront/internal/model"
	"shopfront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, handler http.Handler) (*Manager, storage.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, zerolog.Nop())
	store := storage.NewMemStore()
	return NewManager(client, store, zerolog.Nop()), store
}

func loginHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.LoginResponse{
			Token: "token-123",
			User:  model.User{ID: 42, Email: "jo@example.com", Name: "Jo"},
		})
	})
	return mux
}

func TestManager_Login_EstablishesAndPersistsSession(t *testing.T) {
	m, store := newTestManager(t, loginHandler(t))

	var notified *model.User
	m.OnChange(func(u *model.User) { notified = u })

	user, err := m.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 42, user.ID)
	assert.True(t, m.IsAuthenticated())

	require.NotNil(t, notified)
	assert.Equal(t, 42, notified.ID)

	var token string
	found, err := store.Get(storage.KeyToken, &token)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "token-123", token)

	var stored model.User
	found, err = store.Get(storage.KeyUser, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jo", stored.Name)
}

func TestManager_Login_FailureLeavesGuest(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))

	_, err := m.Login(context.Background(), "jo@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
}

func TestManager_Authenticated_GuestRejectedWithoutNetwork(t *testing.T) {
	var calls atomic.Int64
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	err := m.Authenticated(context.Background(), func(ctx context.Context, bearer api.RequestOption) error {
		t.Fatal("fn must not run for guests")
		return nil
	})
	assert.ErrorIs(t, err, model.ErrLoginRequired)
	assert.Equal(t, int64(0), calls.Load())
}

func TestManager_Authenticated_UnauthorizedTearsDownSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/auth/login", loginHandler(t))
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Token expired"})
	})
	m, store := newTestManager(t, mux)

	_, err := m.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	var loggedOut bool
	m.OnChange(func(u *model.User) {
		if u == nil {
			loggedOut = true
		}
	})

	err = m.Authenticated(context.Background(), func(ctx context.Context, bearer api.RequestOption) error {
		return &api.Error{Status: http.StatusUnauthorized, Message: "Token expired"}
	})
	require.Error(t, err)

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())
	assert.True(t, loggedOut)

	var token string
	found, err := store.Get(storage.KeyToken, &token)
	require.NoError(t, err)
	assert.False(t, found, "persisted token must be removed")

	var user model.User
	found, err = store.Get(storage.KeyUser, &user)
	require.NoError(t, err)
	assert.False(t, found, "persisted user must be removed")
}

func TestManager_Authenticated_ForbiddenAlsoTearsDown(t *testing.T) {
	m, _ := newTestManager(t, loginHandler(t))
	_, err := m.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	err = m.Authenticated(context.Background(), func(ctx context.Context, bearer api.RequestOption) error {
		return &api.Error{Status: http.StatusForbidden, Message: "Forbidden"}
	})
	require.Error(t, err)
	assert.False(t, m.IsAuthenticated())
}

func TestManager_Authenticated_OtherErrorsKeepSession(t *testing.T) {
	m, _ := newTestManager(t, loginHandler(t))
	_, err := m.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	err = m.Authenticated(context.Background(), func(ctx context.Context, bearer api.RequestOption) error {
		return &api.Error{Status: http.StatusInternalServerError, Message: "boom"}
	})
	require.Error(t, err)
	assert.True(t, m.IsAuthenticated())
}

func TestManager_Restore(t *testing.T) {
	m, store := newTestManager(t, http.NewServeMux())
	require.NoError(t, store.Put(storage.KeyToken, "opaque-token"))
	require.NoError(t, store.Put(storage.KeyUser, model.User{ID: 7, Name: "Sam"}))

	require.NoError(t, m.Restore())
	assert.True(t, m.IsAuthenticated())
	require.NotNil(t, m.User())
	assert.Equal(t, "Sam", m.User().Name)
}

func TestManager_Restore_ExpiredJWTDiscarded(t *testing.T) {
	m, store := newTestManager(t, http.NewServeMux())

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.NoError(t, store.Put(storage.KeyToken, expired))
	require.NoError(t, store.Put(storage.KeyUser, model.User{ID: 7}))

	require.NoError(t, m.Restore())
	assert.False(t, m.IsAuthenticated())

	var token string
	found, err := store.Get(storage.KeyToken, &token)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestManager_Logout(t *testing.T) {
	m, store := newTestManager(t, loginHandler(t))
	_, err := m.Login(context.Background(), "jo@example.com", "pw")
	require.NoError(t, err)

	m.Logout()
	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.User())

	var token string
	found, err := store.Get(storage.KeyToken, &token)
	require.NoError(t, err)
	assert.False(t, found)
}
