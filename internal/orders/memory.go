package orders

import (
	"context"
	"sync"

	"github.com/cppfool/jigoshop/internal/domain"
)

type MemoryProvider struct {
	mu     sync.RWMutex
	orders map[int64]domain.Order
}

func NewMemoryProvider(seed ...domain.Order) *MemoryProvider {
	p := &MemoryProvider{orders: make(map[int64]domain.Order)}
	for _, o := range seed {
		p.orders[o.ID] = o
	}
	return p
}

func (p *MemoryProvider) Find(_ context.Context, id int64) (*domain.Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (p *MemoryProvider) Put(order domain.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders[order.ID] = order
}
