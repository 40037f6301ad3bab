package book

import "github.com/quagmt/udecimal"

// DepthChange represents a change in the order book depth.
type DepthChange struct {
	Side    Side
	Price   udecimal.Decimal
	QtyDiff int64
}

// CalculateDepthChange maps a book event to the per-side depth delta it
// implies. Note: for LogTypeMatch the side returned is the maker's side
// (opposite of the log's side), since a match consumes liquidity from
// the resting book.
func CalculateDepthChange(log *OrderBookLog) DepthChange {
	switch log.Type {
	case LogTypeOpen:
		return DepthChange{
			Side:    log.Side,
			Price:   log.Price,
			QtyDiff: log.Qty,
		}
	case LogTypeCancel:
		return DepthChange{
			Side:    log.Side,
			Price:   log.Price,
			QtyDiff: -log.Qty,
		}
	case LogTypeMatch:
		return DepthChange{
			Side:    log.Side.Opposite(),
			Price:   log.Price,
			QtyDiff: -log.Qty,
		}
	case LogTypeAmend:
		// A price replace removes the old quantity from the old level;
		// the reinsertion arrives as a separate Open event.
		if !log.OldPrice.Equal(log.Price) {
			return DepthChange{
				Side:    log.Side,
				Price:   log.OldPrice,
				QtyDiff: -log.OldQty,
			}
		}

		// In-place quantity amend: the difference is (new - old).
		return DepthChange{
			Side:    log.Side,
			Price:   log.Price,
			QtyDiff: log.Qty - log.OldQty,
		}
	}

	return DepthChange{}
}
