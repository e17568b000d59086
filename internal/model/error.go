package model

// Standard error codes surfaced to the caller
const (
	ErrCodeLoginRequired     = "LOGIN_REQUIRED"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeCouponNotEligible = "COUPON_NOT_ELIGIBLE"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule rejection with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrLoginRequired     = NewDomainError(ErrCodeLoginRequired, "Please login to use this feature")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be at least 1")
	ErrInvalidCoupon     = NewDomainError(ErrCodeInvalidCoupon, "Invalid coupon code")
	ErrCouponNotEligible = NewDomainError(ErrCodeCouponNotEligible, "Cart total does not meet the coupon's minimum order value")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
)
