package book

import (
	"github.com/huandu/skiplist"
	"github.com/quagmt/udecimal"
)

// DepthItem is one aggregated price level as reported by the
// aggregated book.
type DepthItem struct {
	Price udecimal.Decimal `json:"price"`
	Qty   int64            `json:"qty"`
}

// AggregatedBook maintains a simplified view of the order book,
// tracking only price levels and their aggregated quantities (depth).
// It is rebuilt purely from OrderBookLog events, so downstream
// consumers can mirror book depth without access to the live book.
type AggregatedBook struct {
	seqID uint64 // last applied SequenceID, for dedup and gap detection
	bid   *skiplist.SkipList
	ask   *skiplist.SkipList
}

// NewAggregatedBook creates an AggregatedBook with empty sides.
// Bids are sorted descending (best first), asks ascending.
func NewAggregatedBook() *AggregatedBook {
	return &AggregatedBook{
		bid: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(udecimal.Decimal)
			d2, _ := rhs.(udecimal.Decimal)

			if d1.LessThan(d2) {
				return 1
			} else if d1.GreaterThan(d2) {
				return -1
			}

			return 0
		})),
		ask: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(udecimal.Decimal)
			d2, _ := rhs.(udecimal.Decimal)

			if d1.GreaterThan(d2) {
				return 1
			} else if d1.LessThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// SequenceID returns the last applied sequence ID.
func (ab *AggregatedBook) SequenceID() uint64 {
	return ab.seqID
}

// Replay applies an OrderBookLog event to the depth view. Events with
// a sequence ID at or below the last applied one are duplicates and
// are skipped. Replay order must follow sequence order; a gap means
// the caller lost events and should rebuild from a snapshot.
func (ab *AggregatedBook) Replay(log *OrderBookLog) {
	if log.SequenceID <= ab.seqID {
		return
	}
	ab.seqID = log.SequenceID

	change := CalculateDepthChange(log)
	if change.QtyDiff == 0 {
		return
	}

	side := ab.bid
	if change.Side == Sell {
		side = ab.ask
	}

	qty := change.QtyDiff
	if el := side.Get(change.Price); el != nil {
		qty += el.Value.(int64)
	}

	if qty <= 0 {
		side.Remove(change.Price)
		return
	}
	side.Set(change.Price, qty)
}

// Depth returns the aggregated quantity at a price level, 0 if the
// level does not exist.
func (ab *AggregatedBook) Depth(side Side, price udecimal.Decimal) int64 {
	list := ab.bid
	if side == Sell {
		list = ab.ask
	}

	el := list.Get(price)
	if el == nil {
		return 0
	}
	return el.Value.(int64)
}

// BestBid returns the highest bid price in the view, zero when empty.
func (ab *AggregatedBook) BestBid() udecimal.Decimal {
	return front(ab.bid)
}

// BestAsk returns the lowest ask price in the view, zero when empty.
func (ab *AggregatedBook) BestAsk() udecimal.Decimal {
	return front(ab.ask)
}

func front(list *skiplist.SkipList) udecimal.Decimal {
	el := list.Front()
	if el == nil {
		return udecimal.Decimal{}
	}
	return el.Key().(udecimal.Decimal)
}

// TopLevels returns up to limit levels for the side, best price first.
func (ab *AggregatedBook) TopLevels(side Side, limit int) []DepthItem {
	list := ab.bid
	if side == Sell {
		list = ab.ask
	}

	result := make([]DepthItem, 0, limit)
	el := list.Front()
	for el != nil && len(result) < limit {
		result = append(result, DepthItem{
			Price: el.Key().(udecimal.Decimal),
			Qty:   el.Value.(int64),
		})
		el = el.Next()
	}

	return result
}

// LevelCount returns the number of levels on the side.
func (ab *AggregatedBook) LevelCount(side Side) int {
	if side == Sell {
		return ab.ask.Len()
	}
	return ab.bid.Len()
}
