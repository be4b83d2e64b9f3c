package cart

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/cppfool/jigoshop/internal/cart/cache"
	"github.com/cppfool/jigoshop/internal/cart/repository"
	"github.com/cppfool/jigoshop/internal/domain"
)

// QuantityUpdate is one entry of an inbound batch, in submission order.
type QuantityUpdate struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ItemFailure records why one batch entry could not be applied.
type ItemFailure struct {
	ProductID int64
	Err       error
}

// BatchResult reports a best-effort batch: the cart as persisted and
// the entries that failed. Failed entries keep their previous state;
// entries after a failure are still applied.
type BatchResult struct {
	Cart     *domain.Cart
	Failures []ItemFailure
}

type Service struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
	log   zerolog.Logger
}

func NewService(repo repository.CartRepository, cache cache.CartCache, log zerolog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get returns the shopper's cart for display, going through the cache.
// A shopper without a stored cart gets a fresh empty one.
func (s *Service) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn().Err(err).Msg("cache get error") // log cache error but continue
		}

		c, errGet := s.load(ctx, userID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), userID, c); errSet != nil {
				s.log.Warn().Err(errSet).Msg("cache set error")
			}
		}()

		return c, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// ApplyUpdates runs one quantity-update batch: every entry is applied
// in order against the in-memory cart, failures are collected per item
// without aborting the rest, and the result is persisted exactly once.
// A stale concurrent save surfaces as repository.ErrVersionConflict.
func (s *Service) ApplyUpdates(ctx context.Context, userID int64, updates []QuantityUpdate) (*BatchResult, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Cart: c}
	for _, update := range updates {
		if errUpdate := c.UpdateQuantity(update.ProductID, update.Quantity); errUpdate != nil {
			result.Failures = append(result.Failures, ItemFailure{
				ProductID: update.ProductID,
				Err:       errUpdate,
			})
		}
	}

	// The cart persists regardless of per-item failures: entries that
	// applied cleanly are kept, failed ones never touched the cart.
	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}

	return result, nil
}

// AddItem puts a new line into the cart, or bumps an existing one.
func (s *Service) AddItem(ctx context.Context, userID int64, item domain.CartItem) (*domain.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	c.AddItem(item)

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove drops one item from the cart and persists. Removing an item
// that is not there leaves the cart as-is but still saves, matching the
// remove directive's fire-and-forget contract.
func (s *Service) Remove(ctx context.Context, userID int64, productID int64) (*domain.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)

	if err := s.persist(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear deletes the shopper's cart entirely (order completed).
func (s *Service) Clear(ctx context.Context, userID int64) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		s.log.Error().Err(errDelete).Int64("user_id", userID).Msg("repo delete cart error")
		return errDelete
	}

	s.invalidateCache(userID)
	return nil
}

// load reads the cart straight from the repository so mutations always
// start from the current version, never a cached copy.
func (s *Service) load(ctx context.Context, userID int64) (*domain.Cart, error) {
	c, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) persist(ctx context.Context, c *domain.Cart) error {
	if err := s.repo.SaveCart(ctx, c); err != nil {
		s.log.Error().Err(err).Int64("user_id", c.UserID).Msg("repo save cart error")
		return err
	}

	s.invalidateCache(c.UserID)
	return nil
}

func (s *Service) invalidateCache(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidate error")
	}
}
