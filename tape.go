package book

import (
	"sync"

	"github.com/igrmk/treemap/v2"
)

// TradeTape is an ordered in-memory trade history keyed by trade ID.
// It implements TradeSink, so it can be fed directly from the matching
// engine, and it serves range reads for downstream consumers that need
// to catch up from a known position.
type TradeTape struct {
	mu     sync.RWMutex
	trades *treemap.TreeMap[uint64, Trade]
}

// NewTradeTape creates an empty tape.
func NewTradeTape() *TradeTape {
	return &TradeTape{
		trades: treemap.New[uint64, Trade](),
	}
}

// PublishTrades records the trades on the tape.
func (t *TradeTape) PublishTrades(trades ...*Trade) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, trade := range trades {
		t.trades.Set(trade.TradeID, *trade)
	}
}

// Len returns the number of recorded trades.
func (t *TradeTape) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trades.Len()
}

// Get returns the trade with the given ID.
func (t *TradeTape) Get(tradeID uint64) (Trade, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trades.Get(tradeID)
}

// Since returns all trades with an ID strictly greater than afterID,
// in ascending ID order.
func (t *TradeTape) Since(afterID uint64) []Trade {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Trade
	for it := t.trades.UpperBound(afterID); it.Valid(); it.Next() {
		out = append(out, it.Value())
	}
	return out
}

// Last returns the most recent trade, or false when the tape is empty.
func (t *TradeTape) Last() (Trade, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	it := t.trades.Reverse()
	if !it.Valid() {
		return Trade{}, false
	}
	return it.Value(), true
}
