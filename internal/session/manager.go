// Package session holds the current user identity and bearer token
// and enforces the global deauthentication policy: any authenticated
// request the server rejects as unauthorized tears the session down.
package session

import (
	"context"
	"sync"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/model"
	"shopfront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Manager holds the current session, if any, and persists it across
// runs. Subscribers are notified on every login/logout transition so
// dependent state containers can switch scope.
type Manager struct {
	client *api.Client
	store  storage.Store
	logger zerolog.Logger

	mu       sync.Mutex
	user     *model.User
	token    string
	onChange []func(*model.User)
}

// NewManager creates a session manager. Call Restore to pick up a
// persisted session.
func NewManager(client *api.Client, store storage.Store, logger zerolog.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// OnChange registers a callback invoked with the current user after
// every session transition (nil on logout). Registration is expected
// to happen during wiring, before concurrent use.
func (m *Manager) OnChange(fn func(*model.User)) {
	m.onChange = append(m.onChange, fn)
}

// Restore loads a persisted session from the state store. A token
// whose JWT expiry has already passed is discarded and the session
// starts as guest; tokens that are not parseable JWTs are kept and
// left to the 401 teardown policy.
func (m *Manager) Restore() error {
	var token string
	found, err := m.store.Get(storage.KeyToken, &token)
	if err != nil {
		return err
	}
	if !found || token == "" {
		return nil
	}

	if expired(token) {
		m.logger.Info().Msg("stored token expired, starting as guest")
		if err := m.store.Delete(storage.KeyToken); err != nil {
			return err
		}
		return m.store.Delete(storage.KeyUser)
	}

	var user model.User
	if _, err := m.store.Get(storage.KeyUser, &user); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.user = &user
	m.mu.Unlock()

	m.logger.Debug().Int("user_id", user.ID).Msg("session restored")
	return nil
}

// Login authenticates with the backend and establishes the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, error) {
	res, err := m.client.Login(ctx, &model.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.logger.Warn().Err(err).Str("email", email).Msg("login failed")
		return nil, err
	}

	if err := m.store.Put(storage.KeyToken, res.Token); err != nil {
		return nil, err
	}
	if err := m.store.Put(storage.KeyUser, res.User); err != nil {
		return nil, err
	}

	user := res.User
	m.mu.Lock()
	m.token = res.Token
	m.user = &user
	m.mu.Unlock()

	m.logger.Info().Int("user_id", user.ID).Msg("logged in")
	m.notify(&user)
	return &user, nil
}

// Register creates a new account. It does not establish a session;
// the caller logs in afterwards.
func (m *Manager) Register(ctx context.Context, req *model.RegisterRequest) error {
	if err := m.client.Register(ctx, req); err != nil {
		m.logger.Warn().Err(err).Str("email", req.Email).Msg("registration failed")
		return err
	}
	m.logger.Info().Str("email", req.Email).Msg("registered")
	return nil
}

// Logout destroys the session and its persisted records.
func (m *Manager) Logout() {
	m.teardown()
	m.logger.Info().Msg("logged out")
}

// User returns a copy of the current user, or nil for guests.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether a session is established.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// UpdateUser replaces the cached user profile and persists it.
func (m *Manager) UpdateUser(user model.User) error {
	if err := m.store.Put(storage.KeyUser, user); err != nil {
		return err
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

// Authenticated runs fn with the session's bearer token. It returns
// model.ErrLoginRequired for guests without touching the network. A
// 401/403 from the backend unconditionally tears the session down
// before the error is returned to the caller.
func (m *Manager) Authenticated(ctx context.Context, fn func(ctx context.Context, bearer api.RequestOption) error) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" {
		return model.ErrLoginRequired
	}

	err := fn(ctx, api.WithBearer(token))
	if api.IsUnauthorized(err) {
		m.logger.Warn().Err(err).Msg("request rejected as unauthorized, tearing down session")
		m.teardown()
	}
	return err
}

// teardown clears the in-memory session and its persisted records and
// notifies subscribers.
func (m *Manager) teardown() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.Delete(storage.KeyToken); err != nil {
		m.logger.Error().Err(err).Msg("failed to delete persisted token")
	}
	if err := m.store.Delete(storage.KeyUser); err != nil {
		m.logger.Error().Err(err).Msg("failed to delete persisted user")
	}

	m.notify(nil)
}

func (m *Manager) notify(user *model.User) {
	for _, fn := range m.onChange {
		fn(user)
	}
}

// expired reports whether token is a JWT whose exp claim has passed.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
