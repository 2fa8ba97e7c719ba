// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/javajoker/cardshop/internal/models"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrCardNotFound         = errors.New("card not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid order status transition")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPaymentFailed        = errors.New("payment failed")
)

// StatusTransitionError reports a disallowed order status change. It
// matches ErrInvalidStatus with errors.Is.
type StatusTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("%s: %s to %s", ErrInvalidStatus, e.From, e.To)
}

func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatus
}
