// Package sim generates synthetic market data ticks and order flow for
// exercising the matching core. Everything here is deterministic for a
// given seed.
package sim

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/quagmt/udecimal"
	"github.com/rs/xid"

	book "github.com/0x5487/orderbook"
)

const (
	numSymbols = 10

	// Tick prices are drawn in cents on a 100.00..200.00 band with a
	// 5-cent spread.
	minPriceCents = 10000
	maxPriceCents = 20000
	spreadCents   = 5

	minQty = 10
	maxQty = 200

	// Orders are placed around mid with up to 10 cents of skew toward
	// the opposing side, so a useful fraction of them cross.
	maxSkewCents = 10
)

// MarketData is one synthetic tick.
type MarketData struct {
	Symbol    string
	BidPrice  udecimal.Decimal
	AskPrice  udecimal.Decimal
	Timestamp time.Time

	bidCents int64
	askCents int64
}

// Mid returns the tick's midpoint price.
func (md MarketData) Mid() udecimal.Decimal {
	return centsToPrice((md.bidCents + md.askCents) / 2)
}

// Feed produces deterministic synthetic ticks.
type Feed struct {
	rng *rand.Rand
}

// NewFeed creates a feed seeded for reproducibility.
func NewFeed(seed int64) *Feed {
	return &Feed{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GenerateTicks produces n ticks cycling through the symbol universe.
func (f *Feed) GenerateTicks(n int) []MarketData {
	ticks := make([]MarketData, 0, n)
	for i := 0; i < n; i++ {
		bid := minPriceCents + f.rng.Int63n(maxPriceCents-minPriceCents+1)
		ask := bid + spreadCents

		ticks = append(ticks, MarketData{
			Symbol:    "SYM" + strconv.Itoa(i%numSymbols),
			BidPrice:  centsToPrice(bid),
			AskPrice:  centsToPrice(ask),
			Timestamp: time.Now(),
			bidCents:  bid,
			askCents:  ask,
		})
	}
	return ticks
}

// OrderFlow turns ticks into limit orders placed around the mid.
type OrderFlow struct {
	rng *rand.Rand
}

// NewOrderFlow creates a deterministic order generator.
func NewOrderFlow(seed int64) *OrderFlow {
	return &OrderFlow{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next produces one order for the tick: random side, qty in
// [10, 200], price at mid skewed toward the opposing side so crosses
// happen. IDs come from xid and are globally unique.
func (g *OrderFlow) Next(md MarketData) book.PlaceOrder {
	side := book.Sell
	if g.rng.Intn(2) == 1 {
		side = book.Buy
	}

	mid := (md.bidCents + md.askCents) / 2
	skew := g.rng.Int63n(maxSkewCents + 1)

	priceCents := mid - skew
	if side == book.Buy {
		priceCents = mid + skew
	}

	return book.PlaceOrder{
		ID:    xid.New().String(),
		Side:  side,
		Price: centsToPrice(priceCents),
		Qty:   minQty + g.rng.Int63n(maxQty-minQty+1),
	}
}

func centsToPrice(cents int64) udecimal.Decimal {
	return udecimal.MustFromInt64(cents, 2)
}
