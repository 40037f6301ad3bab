package book

import (
	"testing"

	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateDepthChange(t *testing.T) {
	p := udecimal.MustParse("100.5")

	t.Run("open adds qty", func(t *testing.T) {
		change := CalculateDepthChange(&OrderBookLog{
			Type:  LogTypeOpen,
			Side:  Buy,
			Price: p,
			Qty:   10,
		})
		assert.Equal(t, DepthChange{Side: Buy, Price: p, QtyDiff: 10}, change)
	})

	t.Run("cancel removes qty", func(t *testing.T) {
		change := CalculateDepthChange(&OrderBookLog{
			Type:  LogTypeCancel,
			Side:  Sell,
			Price: p,
			Qty:   10,
		})
		assert.Equal(t, DepthChange{Side: Sell, Price: p, QtyDiff: -10}, change)
	})

	t.Run("match consumes the maker side", func(t *testing.T) {
		// the log's side is the taker's; the depth comes off the maker
		change := CalculateDepthChange(&OrderBookLog{
			Type:  LogTypeMatch,
			Side:  Buy,
			Price: p,
			Qty:   7,
		})
		assert.Equal(t, DepthChange{Side: Sell, Price: p, QtyDiff: -7}, change)
	})

	t.Run("quantity amend is the delta", func(t *testing.T) {
		change := CalculateDepthChange(&OrderBookLog{
			Type:     LogTypeAmend,
			Side:     Buy,
			Price:    p,
			Qty:      4,
			OldPrice: p,
			OldQty:   10,
		})
		assert.Equal(t, DepthChange{Side: Buy, Price: p, QtyDiff: -6}, change)
	})

	t.Run("price replace clears the old level", func(t *testing.T) {
		oldPrice := udecimal.MustParse("99")
		change := CalculateDepthChange(&OrderBookLog{
			Type:     LogTypeAmend,
			Side:     Buy,
			Price:    p,
			Qty:      10,
			OldPrice: oldPrice,
			OldQty:   10,
		})
		assert.Equal(t, DepthChange{Side: Buy, Price: oldPrice, QtyDiff: -10}, change)
	})

	t.Run("unknown type is a zero change", func(t *testing.T) {
		change := CalculateDepthChange(&OrderBookLog{Type: LogType("bogus")})
		assert.Equal(t, DepthChange{}, change)
	})
}
