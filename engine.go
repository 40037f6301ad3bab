package book

import (
	"github.com/quagmt/udecimal"
)

// MatchingEngine manages one Book per market. Like the books it owns,
// it is synchronous: callers serialize access per instrument, or shard
// markets across workers.
type MatchingEngine struct {
	books   map[string]*Book
	publish PublishLog
}

// NewMatchingEngine creates an engine whose books publish events to
// the given sink.
func NewMatchingEngine(publish PublishLog) *MatchingEngine {
	if publish == nil {
		publish = NewDiscardPublishLog()
	}
	return &MatchingEngine{
		books:   make(map[string]*Book),
		publish: publish,
	}
}

// Book returns the order book for the market, creating it on first
// use.
func (engine *MatchingEngine) Book(marketID string) *Book {
	b, ok := engine.books[marketID]
	if !ok {
		b = NewBook(marketID, WithPublishLog(engine.publish))
		engine.books[marketID] = b
	}
	return b
}

// Markets returns the IDs of all books the engine has created.
func (engine *MatchingEngine) Markets() []string {
	out := make([]string, 0, len(engine.books))
	for id := range engine.books {
		out = append(out, id)
	}
	return out
}

// Submit routes the order to its market's book.
func (engine *MatchingEngine) Submit(marketID string, cmd PlaceOrder) ([]Trade, error) {
	return engine.Book(marketID).Submit(cmd)
}

// Cancel routes a cancellation to its market's book. Unknown markets
// report failure without creating a book.
func (engine *MatchingEngine) Cancel(marketID string, orderID string) bool {
	b, ok := engine.books[marketID]
	if !ok {
		return false
	}
	return b.Cancel(orderID)
}

// AmendQuantity routes a quantity amend to its market's book.
func (engine *MatchingEngine) AmendQuantity(marketID string, orderID string, newQty int64) bool {
	b, ok := engine.books[marketID]
	if !ok {
		return false
	}
	return b.AmendQuantity(orderID, newQty)
}

// ReplacePrice routes a price replace to its market's book.
func (engine *MatchingEngine) ReplacePrice(marketID string, orderID string, newPrice udecimal.Decimal) bool {
	b, ok := engine.books[marketID]
	if !ok {
		return false
	}
	return b.ReplacePrice(orderID, newPrice)
}
