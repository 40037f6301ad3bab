package book

import (
	"sync"
	"time"

	"github.com/quagmt/udecimal"
)

type LogType string

const (
	LogTypeOpen   LogType = "open"
	LogTypeMatch  LogType = "match"
	LogTypeCancel LogType = "cancel"
	LogTypeAmend  LogType = "amend"
)

// OrderBookLog represents an event in the order book.
// SequenceID is a per-book increasing ID for every event, used for
// ordering, deduplication, and rebuild synchronization in downstream
// views.
type OrderBookLog struct {
	SequenceID   uint64           `json:"seq_id"`
	TradeID      uint64           `json:"trade_id,omitempty"` // only set for Match events
	Type         LogType          `json:"type"`
	MarketID     string           `json:"market_id"`
	Side         Side             `json:"side"`
	Price        udecimal.Decimal `json:"price"`
	Qty          int64            `json:"qty"`
	Amount       udecimal.Decimal `json:"amount,omitempty"` // Price * Qty, only set for Match events
	OldPrice     udecimal.Decimal `json:"old_price,omitempty"`
	OldQty       int64            `json:"old_qty,omitempty"`
	OrderID      string           `json:"order_id"`
	MakerOrderID string           `json:"maker_order_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

var bookLogPool = sync.Pool{
	New: func() any {
		return new(OrderBookLog)
	},
}

func acquireBookLog() *OrderBookLog {
	return bookLogPool.Get().(*OrderBookLog)
}

func releaseBookLog(log *OrderBookLog) {
	// Reset structure to zero values. The zero udecimal.Decimal is a
	// valid 0.
	*log = OrderBookLog{}
	bookLogPool.Put(log)
}

func newOpenLog(seqID uint64, marketID string, order *Order) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeOpen
	log.MarketID = marketID
	log.Side = order.Side
	log.Price = order.Price
	log.Qty = order.Qty
	log.OrderID = order.ID
	log.CreatedAt = time.Now().UTC()
	return log
}

func newMatchLog(seqID uint64, marketID string, trade *Trade, takerSide Side, makerOrderID string) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.TradeID = trade.TradeID
	log.Type = LogTypeMatch
	log.MarketID = marketID
	log.Side = takerSide
	log.Price = trade.Price
	log.Qty = trade.Qty
	log.Amount = trade.Price.Mul(udecimal.MustFromInt64(trade.Qty, 0))
	if takerSide == Buy {
		log.OrderID = trade.BuyOrderID
	} else {
		log.OrderID = trade.SellOrderID
	}
	log.MakerOrderID = makerOrderID
	log.CreatedAt = trade.CreatedAt
	return log
}

func newCancelLog(seqID uint64, marketID string, order *Order) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeCancel
	log.MarketID = marketID
	log.Side = order.Side
	log.Price = order.Price
	log.Qty = order.Qty
	log.OrderID = order.ID
	log.CreatedAt = time.Now().UTC()
	return log
}

func newAmendLog(seqID uint64, marketID string, order *Order, oldPrice udecimal.Decimal, oldQty int64) *OrderBookLog {
	log := acquireBookLog()
	log.SequenceID = seqID
	log.Type = LogTypeAmend
	log.MarketID = marketID
	log.Side = order.Side
	log.Price = order.Price
	log.Qty = order.Qty
	log.OldPrice = oldPrice
	log.OldQty = oldQty
	log.OrderID = order.ID
	log.CreatedAt = time.Now().UTC()
	return log
}
