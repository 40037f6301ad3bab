package book

import (
	"sort"
	"time"

	"github.com/quagmt/udecimal"
)

// Book is a single-instrument limit order book: one Registry (order
// authority), one PriceLevelIndex (derived aggregate view) and the
// matching procedure that keeps the two in lockstep.
//
// The book is single-threaded by design: every public operation runs
// to completion before the next is accepted, and trades are produced
// in the order matches occur. Callers needing concurrency shard by
// instrument, one Book per worker.
type Book struct {
	marketID string
	registry *Registry
	index    *PriceLevelIndex
	seqID    uint64
	tradeID  uint64
	publish  PublishLog
}

// BookOption configures a Book.
type BookOption func(*Book)

// WithPublishLog sets the sink that receives order book events.
func WithPublishLog(p PublishLog) BookOption {
	return func(b *Book) {
		b.publish = p
	}
}

// NewBook creates an empty order book for the given market.
func NewBook(marketID string, opts ...BookOption) *Book {
	b := &Book{
		marketID: marketID,
		registry: NewRegistry(),
		index:    NewPriceLevelIndex(),
		publish:  NewDiscardPublishLog(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// MarketID returns the instrument this book serves.
func (b *Book) MarketID() string {
	return b.marketID
}

// Registry exposes the order authority for read access.
func (b *Book) Registry() *Registry {
	return b.registry
}

// Reserve pre-sizes the registry and index for an expected peak order
// count. Performance hint only; observable behavior is unchanged.
func (b *Book) Reserve(expectedOrders int) {
	b.registry.Reserve(expectedOrders)
	b.index.Reserve(expectedOrders)
}

// canonicalPrice rewrites the price in its minimal-scale form.
// udecimal keeps the scale it was parsed with, so 101 and 101.00
// compare Equal yet are distinct map keys and heap entries; without
// this, numerically equal prices would split into separate levels.
// String trims trailing zeros, so the round trip is the canonical form.
func canonicalPrice(p udecimal.Decimal) udecimal.Decimal {
	c, err := udecimal.Parse(p.String())
	if err != nil {
		return p
	}
	return c
}

// Submit runs the matching procedure for a newly arrived order and
// returns the trades produced, in match order. The incoming order is
// registered first (so fills apply through the registry on both sides)
// but only inserted into the index after matching ends, which makes a
// self-cross impossible. Any unfilled remainder rests in the book.
//
// Fails before any mutation on empty or duplicate ids, non-positive
// quantity, non-positive price, or an invalid side.
func (b *Book) Submit(cmd PlaceOrder) ([]Trade, error) {
	if len(cmd.ID) == 0 || cmd.Qty <= 0 || !cmd.Price.IsPos() {
		return nil, ErrInvalidParam
	}
	if cmd.Side != Buy && cmd.Side != Sell {
		return nil, ErrInvalidParam
	}
	if b.registry.Exists(cmd.ID) {
		return nil, ErrDuplicateID
	}

	order, err := b.registry.Create(cmd.ID, canonicalPrice(cmd.Price), cmd.Qty, cmd.Side)
	if err != nil {
		return nil, err
	}

	logs := make([]*OrderBookLog, 0, 4)
	trades := b.match(order, &logs)

	if order.Qty > 0 {
		b.index.Insert(order)
		logs = append(logs, newOpenLog(b.nextSeqID(), b.marketID, order))
	}

	b.publishLogs(logs)
	return trades, nil
}

// match crosses the incoming order against the opposing side while the
// crossing condition holds, filling resting orders oldest-first at each
// level.
func (b *Book) match(order *Order, logs *[]*OrderBookLog) []Trade {
	var trades []Trade

	for order.Qty > 0 {
		var best udecimal.Decimal
		if order.Side == Buy {
			best = b.index.BestAsk()
		} else {
			best = b.index.BestBid()
		}

		if best.IsZero() {
			break // empty opposing side
		}

		if order.Side == Buy && order.Price.LessThan(best) ||
			order.Side == Sell && order.Price.GreaterThan(best) {
			break // no longer crossing
		}

		makerID, ok := b.index.HeadOrder(best)
		if !ok {
			break
		}

		makerQty := b.registry.RemainingQty(makerID)
		execQty := order.Qty
		if makerQty < execQty {
			execQty = makerQty
		}

		trade := Trade{
			TradeID:   b.nextTradeID(),
			Price:     best, // resting side sets the execution price
			Qty:       execQty,
			CreatedAt: time.Now().UTC(),
		}
		if order.Side == Buy {
			trade.BuyOrderID = order.ID
			trade.SellOrderID = makerID
		} else {
			trade.BuyOrderID = makerID
			trade.SellOrderID = order.ID
		}

		b.registry.Fill(order.ID, execQty)
		b.registry.Fill(makerID, execQty)

		if b.registry.State(makerID) == StateFilled {
			b.index.Remove(makerID)
		} else {
			b.index.Amend(makerID, makerQty-execQty)
		}

		*logs = append(*logs, newMatchLog(b.nextSeqID(), b.marketID, &trade, order.Side, makerID))
		trades = append(trades, trade)
	}

	return trades
}

// Cancel transitions the order to Canceled and removes it from the
// index. Returns false, leaving both structures untouched, when the id
// is unknown or already terminal. A second cancel on the same id is
// therefore a failure with no further index effect.
func (b *Book) Cancel(id string) bool {
	order := b.registry.get(id)
	if order == nil || order.State.Terminal() {
		return false
	}

	b.registry.Cancel(id)
	b.index.Remove(id)

	log := newCancelLog(b.nextSeqID(), b.marketID, order)
	b.publishLogs([]*OrderBookLog{log})
	return true
}

// AmendQuantity sets the order's remaining quantity. Amending to zero
// drives the order to Filled and removes it from the index, shrinking
// the level's order count; any other amend adjusts the level aggregate
// in place, keeping queue position. Returns false for unknown or
// terminal orders and negative quantities.
func (b *Book) AmendQuantity(id string, newQty int64) bool {
	order := b.registry.get(id)
	if order == nil || order.State.Terminal() || newQty < 0 {
		return false
	}

	oldQty := order.Qty
	if !b.registry.AmendQuantity(id, newQty) {
		return false
	}

	if newQty == 0 {
		b.index.Remove(id)
	} else {
		b.index.Amend(id, newQty)
	}

	log := newAmendLog(b.nextSeqID(), b.marketID, order, order.Price, oldQty)
	b.publishLogs([]*OrderBookLog{log})
	return true
}

// ReplacePrice moves the order to a new price level with its current
// remaining quantity. The order is removed and reinserted, so it
// forfeits its queue position at the new level (venue convention:
// cancel/replace loses time priority). The whole operation is rejected
// before any mutation when the id is unknown or terminal or the price
// is not positive. The replaced order does not re-match until a later
// submission crosses it.
func (b *Book) ReplacePrice(id string, newPrice udecimal.Decimal) bool {
	order := b.registry.get(id)
	if order == nil || order.State.Terminal() || !newPrice.IsPos() {
		return false
	}
	newPrice = canonicalPrice(newPrice)

	oldPrice := order.Price
	wasResting := b.index.Contains(id)

	if wasResting {
		b.index.Remove(id)
	}
	b.registry.ReplacePrice(id, newPrice)
	if wasResting {
		b.index.Insert(order)
	}

	logs := []*OrderBookLog{newAmendLog(b.nextSeqID(), b.marketID, order, oldPrice, order.Qty)}
	if wasResting {
		logs = append(logs, newOpenLog(b.nextSeqID(), b.marketID, order))
	}
	b.publishLogs(logs)
	return true
}

// BestBid returns the highest resting bid price, or zero when no bids
// rest.
func (b *Book) BestBid() udecimal.Decimal {
	return b.index.BestBid()
}

// BestAsk returns the lowest resting ask price, or zero when no asks
// rest.
func (b *Book) BestAsk() udecimal.Decimal {
	return b.index.BestAsk()
}

// OrderCount returns the number of resting orders at the price.
func (b *Book) OrderCount(price udecimal.Decimal) int {
	return b.index.OrderCount(canonicalPrice(price))
}

// TotalVolume returns the total resting quantity at the price.
func (b *Book) TotalVolume(price udecimal.Decimal) int64 {
	return b.index.TotalVolume(canonicalPrice(price))
}

// LevelCount returns the number of active price levels across both
// sides.
func (b *Book) LevelCount() int {
	return b.index.LevelCount()
}

// Levels returns up to limit aggregated levels for the side, best
// price first. A non-positive limit returns every level on the side.
func (b *Book) Levels(side Side, limit int) []Level {
	var prices []udecimal.Decimal
	for _, p := range b.index.prices() {
		headID, ok := b.index.HeadOrder(p)
		if !ok {
			continue
		}
		if b.registry.Side(headID) == side {
			prices = append(prices, p)
		}
	}

	sort.Slice(prices, func(i, j int) bool {
		if side == Buy {
			return prices[i].GreaterThan(prices[j])
		}
		return prices[i].LessThan(prices[j])
	})

	if limit > 0 && len(prices) > limit {
		prices = prices[:limit]
	}

	levels := make([]Level, 0, len(prices))
	for _, p := range prices {
		levels = append(levels, Level{
			Price: p,
			Qty:   b.index.TotalVolume(p),
			Count: b.index.OrderCount(p),
		})
	}
	return levels
}

// SequenceID returns the last event sequence id issued by this book.
func (b *Book) SequenceID() uint64 {
	return b.seqID
}

func (b *Book) nextSeqID() uint64 {
	b.seqID++
	return b.seqID
}

func (b *Book) nextTradeID() uint64 {
	b.tradeID++
	return b.tradeID
}

func (b *Book) publishLogs(logs []*OrderBookLog) {
	if len(logs) == 0 {
		return
	}
	b.publish.Publish(logs...)
	for _, log := range logs {
		releaseBookLog(log)
	}
}
