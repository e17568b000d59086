// Package cart implements the cart & coupon engine: authoritative
// cart contents plus the applied coupon's derived discount, persisted
// per scope (guest or user) and reconciled on login.
package cart

import (
	"context"
	"sync"

	"shopfront/internal/model"
	"shopfront/internal/storage"

	"github.com/rs/zerolog"
)

// CouponValidator validates a coupon code against the current cart
// total with the remote service. Implemented by the API client.
type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, cartTotal float64) (*model.Coupon, error)
}

// Engine maintains the cart line items and the applied coupon. All
// cart operations are pure local state transitions persisted on every
// mutation; ApplyCoupon is the one network-dependent operation.
type Engine struct {
	store     storage.Store
	validator CouponValidator
	logger    zerolog.Logger

	// applyMu serializes ApplyCoupon end to end so a stale validation
	// response can never overwrite a newer one. Cart mutations only
	// take mu and are never blocked by coupon I/O.
	applyMu sync.Mutex

	mu       sync.Mutex
	scope    string
	items    []model.CartItem
	coupon   *model.Coupon
	discount float64
}

// NewEngine creates a cart engine in the guest scope, loading any
// persisted guest cart and coupon.
func NewEngine(store storage.Store, validator CouponValidator, logger zerolog.Logger) (*Engine, error) {
	e := &Engine{
		store:     store,
		validator: validator,
		logger:    logger.With().Str("component", "cart").Logger(),
		scope:     storage.GuestScope,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.loadLocked(); err != nil {
		return nil, err
	}
	if err := e.recomputeLocked(); err != nil {
		return nil, err
	}
	return e, nil
}

// SetUser switches the engine to the given user's scope, or back to
// the guest scope when user is nil. On the guest-to-user transition
// any guest cart is merged into the user's cart (quantities add for
// matching product ids) and the guest-scoped records are deleted.
func (e *Engine) SetUser(user *model.User) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	scope := storage.GuestScope
	if user != nil {
		scope = storage.UserScope(user.ID)
	}
	if scope == e.scope {
		return nil
	}

	if user == nil {
		e.scope = scope
		if err := e.loadLocked(); err != nil {
			return err
		}
		return e.recomputeLocked()
	}

	// Guest items before switching scope; they merge into the user cart.
	fromGuest := e.scope == storage.GuestScope
	guestItems := e.items
	if !fromGuest {
		guestItems = nil
	}

	e.scope = scope
	if err := e.loadLocked(); err != nil {
		return err
	}

	if len(guestItems) > 0 {
		for _, g := range guestItems {
			e.mergeLocked(g)
		}
		if err := e.persistLocked(); err != nil {
			return err
		}
		e.logger.Info().
			Int("merged_items", len(guestItems)).
			Str("scope", e.scope).
			Msg("guest cart merged into user cart")
	}

	// Guest records do not survive the transition even when there was
	// nothing to merge.
	if fromGuest {
		if err := e.store.Delete(storage.CartKey(storage.GuestScope)); err != nil {
			return err
		}
		if err := e.store.Delete(storage.CouponKey(storage.GuestScope)); err != nil {
			return err
		}
	}

	return e.recomputeLocked()
}

// Add adds an item to the cart, merging quantities when the product is
// already present. A non-positive incoming quantity counts as one.
func (e *Engine) Add(item model.CartItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.mergeLocked(item)
	if err := e.persistLocked(); err != nil {
		return err
	}
	return e.recomputeLocked()
}

// Remove deletes the item with the given product id. Removing an
// absent item is a no-op.
func (e *Engine) Remove(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			if err := e.persistLocked(); err != nil {
				return err
			}
			return e.recomputeLocked()
		}
	}
	return nil
}

// SetQuantity overwrites the quantity of the item with the given
// product id. Quantities below one are rejected and leave the item
// unchanged.
func (e *Engine) SetQuantity(id, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
			if err := e.persistLocked(); err != nil {
				return err
			}
			return e.recomputeLocked()
		}
	}
	return nil
}

// Clear empties the cart. Used after a completed checkout.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = nil
	if err := e.persistLocked(); err != nil {
		return err
	}
	return e.recomputeLocked()
}

// ApplyCoupon validates a code with the remote service against the
// current subtotal and, on success, applies the returned rule. A
// failed validation leaves any previously applied coupon untouched.
// Calls are serialized so the last call's result always wins.
func (e *Engine) ApplyCoupon(ctx context.Context, code string) error {
	e.applyMu.Lock()
	defer e.applyMu.Unlock()

	e.mu.Lock()
	subtotal := e.subtotalLocked()
	e.mu.Unlock()

	coupon, err := e.validator.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		e.logger.Warn().Err(err).Str("code", code).Msg("coupon validation failed")
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.coupon = coupon
	if err := e.store.Put(storage.CouponKey(e.scope), coupon); err != nil {
		return err
	}
	e.logger.Info().
		Str("code", coupon.Code).
		Str("type", coupon.DiscountType).
		Float64("value", coupon.Value).
		Msg("coupon applied")

	return e.recomputeLocked()
}

// RemoveCoupon clears the applied coupon and zeroes the discount.
func (e *Engine) RemoveCoupon() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clearCouponLocked()
}

// Items returns a copy of the cart line items.
func (e *Engine) Items() []model.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]model.CartItem, len(e.items))
	copy(items, e.items)
	return items
}

// Count returns the total item quantity in the cart.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the cart subtotal before any discount.
func (e *Engine) Subtotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked()
}

// Coupon returns a copy of the applied coupon, or nil.
func (e *Engine) Coupon() *model.Coupon {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.coupon == nil {
		return nil
	}
	c := *e.coupon
	return &c
}

// Discount returns the current derived discount.
func (e *Engine) Discount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discount
}

// Total returns the payable total: subtotal minus discount.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subtotalLocked() - e.discount
}

// mergeLocked adds item to the cart, combining quantities with an
// existing entry for the same product id.
func (e *Engine) mergeLocked(item model.CartItem) {
	for i := range e.items {
		if e.items[i].ID == item.ID {
			e.items[i].Quantity += item.Quantity
			return
		}
	}
	e.items = append(e.items, item)
}

func (e *Engine) subtotalLocked() float64 {
	var subtotal float64
	for _, item := range e.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// loadLocked replaces the in-memory cart and coupon with the current
// scope's persisted records. Callers recompute the discount once any
// pending merge has been applied.
func (e *Engine) loadLocked() error {
	e.items = nil
	e.coupon = nil
	e.discount = 0

	var items []model.CartItem
	if _, err := e.store.Get(storage.CartKey(e.scope), &items); err != nil {
		return err
	}
	e.items = items

	var coupon model.Coupon
	found, err := e.store.Get(storage.CouponKey(e.scope), &coupon)
	if err != nil {
		return err
	}
	if found {
		e.coupon = &coupon
	}

	return nil
}

func (e *Engine) persistLocked() error {
	return e.store.Put(storage.CartKey(e.scope), e.items)
}

// recomputeLocked re-derives the discount after any change to the
// subtotal or the coupon rule. A coupon whose minimum order value the
// subtotal no longer satisfies is evicted entirely.
func (e *Engine) recomputeLocked() error {
	if e.coupon == nil {
		e.discount = 0
		return nil
	}

	discount, eligible := computeDiscount(e.subtotalLocked(), e.coupon)
	if !eligible {
		e.logger.Warn().
			Str("code", e.coupon.Code).
			Float64("min_order_value", e.coupon.MinOrderValue).
			Float64("subtotal", e.subtotalLocked()).
			Msg("coupon evicted, minimum order value no longer met")
		return e.clearCouponLocked()
	}

	e.discount = discount
	return nil
}

func (e *Engine) clearCouponLocked() error {
	e.coupon = nil
	e.discount = 0
	return e.store.Delete(storage.CouponKey(e.scope))
}
