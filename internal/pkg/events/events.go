package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TradeCompleted is published after a buy commits. Subscribers (certificate
// issuer, analytics) run outside the settlement transaction; their failures
// are logged and never reach the trade caller.
type TradeCompleted struct {
	TradeID         uuid.UUID       `json:"trade_id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	PropertyID      uuid.UUID       `json:"property_id"`
	TokensBought    int64           `json:"tokens_bought"`
	TotalUSDT       decimal.Decimal `json:"total_usdt"`
	BuyerHoldingID  uuid.UUID       `json:"buyer_holding_id"`
	SellerHoldingID uuid.UUID       `json:"seller_holding_id"`
}

// TradeSubscriber receives completed trades.
type TradeSubscriber interface {
	OnTradeCompleted(ctx context.Context, ev TradeCompleted) error
}

// Bus is a small in-process pub/sub for trade events.
type Bus struct {
	mu   sync.RWMutex
	subs []TradeSubscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s TradeSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// PublishTradeCompleted dispatches the event to every subscriber in its own
// goroutine. A panicking or failing subscriber only produces a log line.
func (b *Bus) PublishTradeCompleted(ctx context.Context, ev TradeCompleted) {
	b.mu.RLock()
	subs := make([]TradeSubscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		sub := s
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("trade_id", ev.TradeID.String()).Msg("trade subscriber panicked")
				}
			}()
			if err := sub.OnTradeCompleted(ctx, ev); err != nil {
				log.Warn().Err(err).Str("trade_id", ev.TradeID.String()).Msg("trade subscriber failed")
			}
		}()
	}
}
