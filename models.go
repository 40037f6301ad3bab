package book

import (
	"time"

	"github.com/quagmt/udecimal"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderState is the lifecycle state of an order.
//
// Valid transitions:
//
//	New -> PartiallyFilled -> Filled
//	New -> Filled
//	New | PartiallyFilled -> Canceled
//
// Filled and Canceled are terminal; every mutation on a terminal order
// is a no-op returning a failure indicator.
type OrderState int8

const (
	StateNew OrderState = iota
	StatePartiallyFilled
	StateFilled
	StateCanceled
)

// Terminal reports whether the state accepts no further mutations.
func (s OrderState) Terminal() bool {
	return s == StateFilled || s == StateCanceled
}

func (s OrderState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePartiallyFilled:
		return "partially_filled"
	case StateFilled:
		return "filled"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

// Order represents the state of an order in the book.
// Qty is the remaining (unfilled) quantity; it is mutated only by
// fills and amends and never goes negative.
type Order struct {
	ID        string           `json:"id"`
	Side      Side             `json:"side"`
	Price     udecimal.Decimal `json:"price"`
	Qty       int64            `json:"qty"`
	State     OrderState       `json:"state"`
	Timestamp int64            `json:"timestamp"` // Unix nano, creation time
}

// PlaceOrder is the input command for submitting an order.
// The ID is externally assigned and must be unique; it is not required
// to be monotonic.
type PlaceOrder struct {
	ID    string           `json:"id"`
	Side  Side             `json:"side"`
	Price udecimal.Decimal `json:"price"`
	Qty   int64            `json:"qty"`
}

// Trade is a completed match record. Price follows the resting (maker)
// side of the match.
type Trade struct {
	TradeID     uint64           `json:"trade_id"`
	BuyOrderID  string           `json:"buy_order_id"`
	SellOrderID string           `json:"sell_order_id"`
	Price       udecimal.Decimal `json:"price"`
	Qty         int64            `json:"qty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Level is one aggregated price level as reported by depth queries.
type Level struct {
	Price udecimal.Decimal `json:"price"`
	Qty   int64            `json:"qty"`
	Count int              `json:"count"`
}
