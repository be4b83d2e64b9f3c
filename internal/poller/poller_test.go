package poller

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type clearerMock struct {
	m       sync.Mutex
	cleared []int64
	err     error
}

func (c *clearerMock) Clear(_ context.Context, userID int64) error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return c.err
	}
	c.cleared = append(c.cleared, userID)
	return nil
}

func testPoller(carts CartClearer) *Poller {
	return &Poller{carts: carts, log: zerolog.Nop()}
}

func TestHandleMessage_CompletedOrderClearsCart(t *testing.T) {
	carts := &clearerMock{}
	p := testPoller(carts)

	p.handleMessage(context.Background(), []byte(`{"type":"order_completed","user_id":123}`))

	assert.Equal(t, []int64{123}, carts.cleared)
}

func TestHandleMessage_OtherEventIgnored(t *testing.T) {
	carts := &clearerMock{}
	p := testPoller(carts)

	p.handleMessage(context.Background(), []byte(`{"type":"order_created","user_id":123}`))

	assert.Empty(t, carts.cleared)
}

func TestHandleMessage_MalformedPayloadIgnored(t *testing.T) {
	carts := &clearerMock{}
	p := testPoller(carts)

	p.handleMessage(context.Background(), []byte(`not json`))
	p.handleMessage(context.Background(), []byte(`{"type":"order_completed"}`))

	assert.Empty(t, carts.cleared)
}
