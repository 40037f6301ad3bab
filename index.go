package book

import (
	"container/heap"

	"github.com/quagmt/udecimal"
)

// priceLevel aggregates all resting orders sharing one price.
// resting holds order ids in arrival order (oldest first) so fills can
// be attributed with true time priority within the level.
type priceLevel struct {
	totalQty int64
	count    int
	resting  []string
}

// orderRef routes an order id back to its level in O(1).
// qty is a derived copy of the registry's remaining quantity, used
// only to compute aggregate deltas; it is written exclusively with
// values the engine read from the registry.
type orderRef struct {
	price udecimal.Decimal
	qty   int64
}

// priceHeap is a price priority queue with lazy eviction: prices are
// pushed on every insert and stale or duplicate entries are filtered
// out at query time, never removed eagerly.
type priceHeap struct {
	prices []udecimal.Decimal
	max    bool
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i].GreaterThan(h.prices[j])
	}
	return h.prices[i].LessThan(h.prices[j])
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	h.prices = append(h.prices, x.(udecimal.Decimal))
}

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	item := old[n-1]
	h.prices = old[:n-1]
	return item
}

// PriceLevelIndex is the derived aggregate view of the book, keyed by
// price. It answers top-of-book queries in O(log n) and routes
// cancels/amends by order id in O(1). The registry stays the single
// authority on per-order state; the index only mirrors what the engine
// tells it.
type PriceLevelIndex struct {
	levels  map[udecimal.Decimal]*priceLevel
	refs    map[string]orderRef
	bidHeap *priceHeap
	askHeap *priceHeap
}

// NewPriceLevelIndex creates an empty index.
func NewPriceLevelIndex() *PriceLevelIndex {
	return &PriceLevelIndex{
		levels:  make(map[udecimal.Decimal]*priceLevel),
		refs:    make(map[string]orderRef),
		bidHeap: &priceHeap{max: true},
		askHeap: &priceHeap{max: false},
	}
}

// Reserve pre-sizes the id-keyed map and heap backing arrays for an
// expected peak order count. Pure performance knob; only applies while
// the index is empty.
func (x *PriceLevelIndex) Reserve(n int) {
	if len(x.refs) != 0 || n <= 0 {
		return
	}
	x.refs = make(map[string]orderRef, n)
	x.bidHeap.prices = make([]udecimal.Decimal, 0, n)
	x.askHeap.prices = make([]udecimal.Decimal, 0, n)
}

// Insert adds a resting order to its price level, creating the level
// if absent, and records the id->price and id->qty mappings.
func (x *PriceLevelIndex) Insert(order *Order) {
	lvl, ok := x.levels[order.Price]
	if !ok {
		lvl = &priceLevel{}
		x.levels[order.Price] = lvl
	}

	lvl.totalQty += order.Qty
	lvl.count++
	lvl.resting = append(lvl.resting, order.ID)
	x.refs[order.ID] = orderRef{price: order.Price, qty: order.Qty}

	if order.Side == Buy {
		heap.Push(x.bidHeap, order.Price)
	} else {
		heap.Push(x.askHeap, order.Price)
	}
}

// Amend adjusts the order's level aggregate by the delta between the
// cached quantity and newQty, keeping the order's queue position.
// No-op for unknown ids; the aggregate saturates at zero rather than
// underflowing.
func (x *PriceLevelIndex) Amend(id string, newQty int64) {
	ref, ok := x.refs[id]
	if !ok {
		return
	}

	lvl, ok := x.levels[ref.price]
	if !ok {
		return
	}

	lvl.totalQty += newQty - ref.qty
	if lvl.totalQty < 0 {
		lvl.totalQty = 0
	}

	ref.qty = newQty
	x.refs[id] = ref
}

// Remove takes the order out of its price level, erasing the level
// entirely once its count reaches zero. Heap entries for the emptied
// price are left behind and filtered lazily by BestBid/BestAsk.
// No-op for unknown ids.
func (x *PriceLevelIndex) Remove(id string) {
	ref, ok := x.refs[id]
	if !ok {
		return
	}

	if lvl, ok := x.levels[ref.price]; ok {
		lvl.totalQty -= ref.qty
		if lvl.totalQty < 0 {
			lvl.totalQty = 0
		}
		lvl.count--

		for i, rid := range lvl.resting {
			if rid == id {
				lvl.resting = append(lvl.resting[:i], lvl.resting[i+1:]...)
				break
			}
		}

		if lvl.count <= 0 {
			delete(x.levels, ref.price)
		}
	}

	delete(x.refs, id)
}

// BestBid returns the highest price with an active level, or the zero
// price when no bids rest. Stale heap tops are popped and permanently
// discarded on the way.
func (x *PriceLevelIndex) BestBid() udecimal.Decimal {
	return x.best(x.bidHeap)
}

// BestAsk returns the lowest price with an active level, or the zero
// price when no asks rest.
func (x *PriceLevelIndex) BestAsk() udecimal.Decimal {
	return x.best(x.askHeap)
}

func (x *PriceLevelIndex) best(h *priceHeap) udecimal.Decimal {
	for h.Len() > 0 {
		p := h.prices[0]
		if lvl, ok := x.levels[p]; ok && lvl.count > 0 {
			return p
		}
		heap.Pop(h) // lazy eviction
	}
	return udecimal.Decimal{}
}

// HeadOrder returns the oldest resting order id at the price.
func (x *PriceLevelIndex) HeadOrder(price udecimal.Decimal) (string, bool) {
	lvl, ok := x.levels[price]
	if !ok || len(lvl.resting) == 0 {
		return "", false
	}
	return lvl.resting[0], true
}

// OrderCount returns the number of resting orders at the price, 0 for
// unknown prices.
func (x *PriceLevelIndex) OrderCount(price udecimal.Decimal) int {
	lvl, ok := x.levels[price]
	if !ok {
		return 0
	}
	return lvl.count
}

// TotalVolume returns the total resting quantity at the price, 0 for
// unknown prices.
func (x *PriceLevelIndex) TotalVolume(price udecimal.Decimal) int64 {
	lvl, ok := x.levels[price]
	if !ok {
		return 0
	}
	return lvl.totalQty
}

// LevelCount returns the number of active price levels across both
// sides.
func (x *PriceLevelIndex) LevelCount() int {
	return len(x.levels)
}

// Contains reports whether the id currently rests in the index.
func (x *PriceLevelIndex) Contains(id string) bool {
	_, ok := x.refs[id]
	return ok
}

// restingAt returns a copy of the FIFO order ids at the price, oldest
// first. Used by snapshots.
func (x *PriceLevelIndex) restingAt(price udecimal.Decimal) []string {
	lvl, ok := x.levels[price]
	if !ok {
		return nil
	}
	ids := make([]string, len(lvl.resting))
	copy(ids, lvl.resting)
	return ids
}

// prices returns all active level prices in unspecified order.
func (x *PriceLevelIndex) prices() []udecimal.Decimal {
	out := make([]udecimal.Decimal, 0, len(x.levels))
	for p := range x.levels {
		out = append(out, p)
	}
	return out
}
