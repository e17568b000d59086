// Package storage provides the persisted client state store: a small
// JSON key-value store holding the session token and the per-scope
// cart and coupon records.
package storage

import "fmt"

// Well-known storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"

	// GuestScope is the cart/coupon scope used before login.
	GuestScope = "guest"
)

// Store defines the persisted key-value store. Values are JSON
// serialized. Writes complete before the call returns; a state
// transition is not considered done until its write has.
type Store interface {
	// Get unmarshals the value for key into v. It returns false with a
	// nil error when the key is absent.
	Get(key string, v any) (bool, error)

	// Put marshals v and writes it under key, replacing any prior value.
	Put(key string, v any) error

	// Delete removes the value for key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// CartKey returns the cart storage key for a scope ("guest" or a user id).
func CartKey(scope string) string {
	return fmt.Sprintf("cart_%s", scope)
}

// CouponKey returns the coupon storage key for a scope.
func CouponKey(scope string) string {
	return fmt.Sprintf("coupon_%s", scope)
}

// UserScope returns the cart/coupon scope for a user id.
func UserScope(userID int) string {
	return fmt.Sprintf("%d", userID)
}
