// Package poller empties a shopper's cart once the orders system
// reports their order completed.
package poller

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const eventOrderCompleted = "order_completed"

// CartClearer is the slice of the cart layer the poller needs.
type CartClearer interface {
	Clear(ctx context.Context, userID int64) error
}

type orderEvent struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
}

type Poller struct {
	carts  CartClearer
	reader *kafka.Reader
	log    zerolog.Logger
}

func NewPoller(carts CartClearer, log zerolog.Logger, topic string, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "shop-cart-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{carts: carts, reader: reader, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			p.log.Warn().Err(err).Msg("error reading message")
			continue
		}
		p.handleMessage(ctx, m.Value)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Warn().Err(err).Msg("error closing reader")
	}
}

func (p *Poller) handleMessage(ctx context.Context, value []byte) {
	var event orderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		p.log.Warn().Err(err).Msg("error parsing message")
		return
	}
	if event.Type != eventOrderCompleted {
		return
	}
	if event.UserID <= 0 {
		p.log.Warn().Msg("missing or invalid user_id")
		return
	}

	if err := p.carts.Clear(ctx, event.UserID); err != nil {
		p.log.Error().Err(err).Int64("user_id", event.UserID).Msg("failed to clear cart")
	}
}
