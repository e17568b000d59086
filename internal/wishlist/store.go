// Package wishlist implements the authenticated-only favorites list.
// The remote service owns the list; local state is a cache maintained
// optimistically, with revert-or-resync reconciliation on failure.
package wishlist

import (
	"context"
	"sync"

	"shopfront/internal/api"
	"shopfront/internal/model"
	"shopfront/internal/session"

	"github.com/rs/zerolog"
)

// Store caches the authenticated user's wishlist.
type Store struct {
	client  *api.Client
	session *session.Manager
	logger  zerolog.Logger

	mu    sync.Mutex
	items []model.WishlistItem
}

// NewStore creates a wishlist store bound to the session manager.
func NewStore(client *api.Client, sess *session.Manager, logger zerolog.Logger) *Store {
	return &Store{
		client:  client,
		session: sess,
		logger:  logger.With().Str("component", "wishlist").Logger(),
	}
}

// HandleSessionChange refreshes the cache on login and clears it on
// logout. Wire it to session.Manager.OnChange.
func (s *Store) HandleSessionChange(ctx context.Context, user *model.User) {
	if user == nil {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to refresh wishlist after login")
	}
}

// Refresh replaces the cache with the remote service's authoritative list.
func (s *Store) Refresh(ctx context.Context) error {
	return s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		items, err := s.client.Wishlist(ctx, bearer)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.items = items
		s.mu.Unlock()
		return nil
	})
}

// Add inserts an item optimistically and confirms with the remote
// service. Guests get model.ErrLoginRequired without any network
// call. On remote failure the optimistic insert is reverted and the
// server's reason returned.
func (s *Store) Add(ctx context.Context, item model.WishlistItem) error {
	if !s.session.IsAuthenticated() {
		return model.ErrLoginRequired
	}

	s.mu.Lock()
	if s.containsLocked(item.ID) {
		s.mu.Unlock()
		return nil
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	err := s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		return s.client.WishlistAdd(ctx, item.ID, bearer)
	})
	if err != nil {
		s.mu.Lock()
		s.removeLocked(item.ID)
		s.mu.Unlock()
		s.logger.Warn().Err(err).Int("product_id", item.ID).Msg("wishlist add reverted")
		return err
	}

	// Pick up server-side state (record ids, stock) behind the
	// optimistic insert. A failed refresh keeps the optimistic copy.
	if err := s.Refresh(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("wishlist refresh after add failed")
	}
	return nil
}

// Remove deletes an item optimistically and confirms with the remote
// service. The inverse of a delete is not well defined, so a remote
// failure triggers a full resynchronization instead of a revert.
func (s *Store) Remove(ctx context.Context, id int) error {
	if !s.session.IsAuthenticated() {
		return nil
	}

	s.mu.Lock()
	s.removeLocked(id)
	s.mu.Unlock()

	err := s.session.Authenticated(ctx, func(ctx context.Context, bearer api.RequestOption) error {
		return s.client.WishlistRemove(ctx, id, bearer)
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("product_id", id).Msg("wishlist remove failed, resynchronizing")
		if refreshErr := s.Refresh(ctx); refreshErr != nil {
			s.logger.Error().Err(refreshErr).Msg("wishlist resynchronization failed")
		}
		return err
	}
	return nil
}

// Contains reports whether a product is in the cached wishlist.
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(id)
}

// Items returns a copy of the cached wishlist.
func (s *Store) Items() []model.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.WishlistItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) containsLocked(id int) bool {
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) removeLocked(id int) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
