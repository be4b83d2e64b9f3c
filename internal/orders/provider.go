// Package orders supplies order snapshots to the customer resolver.
// Order lifecycle belongs to the orders system; this service only reads
// the two addresses.
package orders

import (
	"context"
	"errors"

	"github.com/cppfool/jigoshop/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type Provider interface {
	Find(ctx context.Context, id int64) (*domain.Order, error)
}
