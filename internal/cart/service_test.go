package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppfool/jigoshop/internal/cart/cache"
	"github.com/cppfool/jigoshop/internal/cart/repository"
	"github.com/cppfool/jigoshop/internal/domain"
)

type mockRepository struct {
	m         sync.RWMutex
	cart      *domain.Cart
	getErr    error
	saveErr   error
	saveCalls int
}

func (m *mockRepository) GetCart(context.Context, int64) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	// hand out a copy the way a real repository would
	c := *m.cart
	c.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &c, nil
}

func (m *mockRepository) SaveCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	saved := *c
	saved.Items = append([]domain.CartItem(nil), c.Items...)
	m.cart = &saved
	return nil
}

func (m *mockRepository) DeleteCart(context.Context, int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockRepository) savedCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func (m *mockRepository) saveCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.saveCalls
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, int64) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ int64, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func seededRepo() *mockRepository {
	return &mockRepository{
		cart: &domain.Cart{
			UserID:  123,
			Version: 1,
			Items: []domain.CartItem{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 4},
				{ProductID: 3, Quantity: 2},
			},
		},
	}
}

func TestGet_CacheMissFallsBackToRepo(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.Get(context.Background(), 123)
	require.NoError(t, err)
	assert.Len(t, ret.Items, 3)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGet_CacheHitSkipsRepo(t *testing.T) {
	mockRepo := &mockRepository{getErr: fmt.Errorf("repo should not be called")}
	mockC := &mockCache{cart: &domain.Cart{UserID: 123, Items: []domain.CartItem{{ProductID: 9, Quantity: 1}}}}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.Get(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(9), ret.Items[0].ProductID)
}

func TestGet_NoStoredCartReturnsEmpty(t *testing.T) {
	mockRepo := &mockRepository{getErr: repository.ErrCartNotFound}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.Get(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, int64(123), ret.UserID)
	assert.Empty(t, ret.Items)
}

func TestApplyUpdates_AllClean(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{cart: mockRepo.cart}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	result, err := sut.ApplyUpdates(context.Background(), 123, []QuantityUpdate{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 6},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)

	saved := mockRepo.savedCart()
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.Equal(t, 6, saved.Items[1].Quantity)
	assert.Equal(t, 1, mockRepo.saveCount(), "batch persists exactly once")

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestApplyUpdates_PartialFailureContinues(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	result, err := sut.ApplyUpdates(context.Background(), 123, []QuantityUpdate{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: -1}, // invalid
		{ProductID: 3, Quantity: 3},  // still applied
	})
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, int64(2), result.Failures[0].ProductID)
	assert.ErrorIs(t, result.Failures[0].Err, domain.ErrInvalidQuantity)

	saved := mockRepo.savedCart()
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.Equal(t, 4, saved.Items[1].Quantity, "failed entry keeps its prior value")
	assert.Equal(t, 3, saved.Items[2].Quantity)
	assert.Equal(t, 1, mockRepo.saveCount(), "partial failure still persists once")
}

func TestApplyUpdates_UnknownItemFailure(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	result, err := sut.ApplyUpdates(context.Background(), 123, []QuantityUpdate{
		{ProductID: 99, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0].Err, domain.ErrItemNotFound)
}

func TestApplyUpdates_ConflictPropagates(t *testing.T) {
	mockRepo := seededRepo()
	mockRepo.saveErr = repository.ErrVersionConflict
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	_, err := sut.ApplyUpdates(context.Background(), 123, []QuantityUpdate{
		{ProductID: 1, Quantity: 2},
	})
	require.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestAddItem_AppendsAndPersists(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.AddItem(context.Background(), 123, domain.CartItem{ProductID: 7, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, ret.Items, 4)
	assert.False(t, ret.Items[3].AddedAt.IsZero())
	assert.Equal(t, 1, mockRepo.saveCount())
}

func TestRemove_Success(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.Remove(context.Background(), 123, 2)
	require.NoError(t, err)
	assert.Len(t, ret.Items, 2)

	ids := []int64{ret.Items[0].ProductID, ret.Items[1].ProductID}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestRemove_AbsentItemStillPersists(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	ret, err := sut.Remove(context.Background(), 123, 99)
	require.NoError(t, err)
	assert.Len(t, ret.Items, 3)
	assert.Equal(t, 1, mockRepo.saveCount())
}

func TestClear_Success(t *testing.T) {
	mockRepo := seededRepo()
	mockC := &mockCache{cart: mockRepo.cart}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	require.NoError(t, sut.Clear(context.Background(), 123))
	assert.Nil(t, mockRepo.savedCart())
	assert.Nil(t, mockC.getCart())
}

func TestClear_MissingCartIsFine(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC, zerolog.Nop())
	require.NoError(t, sut.Clear(context.Background(), 123))
}
