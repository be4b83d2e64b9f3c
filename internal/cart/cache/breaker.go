package cache

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/cppfool/jigoshop/internal/domain"
)

// BreakerCache wraps a CartCache with a circuit breaker so a struggling
// Redis degrades reads to cache misses instead of stalling every cart
// request. Cache errors other than a miss count as failures.
type BreakerCache struct {
	inner CartCache
	cb    *gobreaker.CircuitBreaker[any]
}

func NewBreakerCache(inner CartCache) *BreakerCache {
	settings := gobreaker.Settings{
		Name:    "cart-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
	}
	return &BreakerCache{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Get(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (b *BreakerCache) Set(ctx context.Context, userID int64, cart *domain.Cart) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Set(ctx, userID, cart)
	})
	return err
}

func (b *BreakerCache) Delete(ctx context.Context, userID int64) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, userID)
	})
	return err
}
