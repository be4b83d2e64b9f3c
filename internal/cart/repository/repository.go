package repository

import (
	"context"
	"errors"

	"github.com/cppfool/jigoshop/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	// ErrVersionConflict signals that another request saved the same cart
	// between this request's load and save.
	ErrVersionConflict = errors.New("cart was modified concurrently")
)

// CartRepository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	// SaveCart persists the whole cart. The write is guarded by the
	// version loaded with the cart: a stale version fails with
	// ErrVersionConflict instead of silently overwriting the other
	// request's items.
	SaveCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID int64) error
}
