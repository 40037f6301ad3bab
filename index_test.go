package book

import (
	"testing"

	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restingOrder(id string, side Side, price string, qty int64) *Order {
	return &Order{
		ID:    id,
		Side:  side,
		Price: udecimal.MustParse(price),
		Qty:   qty,
		State: StateNew,
	}
}

func TestIndexInsertAggregates(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("100.5")

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))
	x.Insert(restingOrder("b-2", Buy, "100.5", 20))

	assert.Equal(t, 2, x.OrderCount(p))
	assert.Equal(t, int64(30), x.TotalVolume(p))
	assert.Equal(t, 1, x.LevelCount())
	assert.True(t, x.Contains("b-1"))
	assert.True(t, x.BestBid().Equal(p))
}

func TestIndexBestPrices(t *testing.T) {
	x := NewPriceLevelIndex()

	x.Insert(restingOrder("b-1", Buy, "100.1", 10))
	x.Insert(restingOrder("b-2", Buy, "100.3", 10))
	x.Insert(restingOrder("b-3", Buy, "100.2", 10))
	x.Insert(restingOrder("s-1", Sell, "101.5", 10))
	x.Insert(restingOrder("s-2", Sell, "101.2", 10))
	x.Insert(restingOrder("s-3", Sell, "101.9", 10))

	assert.True(t, x.BestBid().Equal(udecimal.MustParse("100.3")))
	assert.True(t, x.BestAsk().Equal(udecimal.MustParse("101.2")))
}

func TestIndexEmptySideSentinel(t *testing.T) {
	x := NewPriceLevelIndex()

	assert.True(t, x.BestBid().IsZero())
	assert.True(t, x.BestAsk().IsZero())

	x.Insert(restingOrder("s-1", Sell, "101", 10))
	assert.True(t, x.BestBid().IsZero())
	assert.True(t, x.BestAsk().Equal(udecimal.MustParse("101")))
}

func TestIndexLazyEviction(t *testing.T) {
	x := NewPriceLevelIndex()

	x.Insert(restingOrder("b-1", Buy, "100.3", 10))
	x.Insert(restingOrder("b-2", Buy, "100.1", 10))
	require.True(t, x.BestBid().Equal(udecimal.MustParse("100.3")))

	// removing the top leaves a stale heap entry; the next query must
	// skip it and fall through to the lower level
	x.Remove("b-1")
	assert.True(t, x.BestBid().Equal(udecimal.MustParse("100.1")))

	x.Remove("b-2")
	assert.True(t, x.BestBid().IsZero())
	assert.Equal(t, 0, x.LevelCount())
}

func TestIndexReinsertedPriceStaysVisible(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("100.5")

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))
	x.Remove("b-1")
	require.True(t, x.BestBid().IsZero())

	// the same price becomes active again; duplicate heap entries from
	// the first insert must not hide it
	x.Insert(restingOrder("b-2", Buy, "100.5", 5))
	assert.True(t, x.BestBid().Equal(p))
	assert.Equal(t, int64(5), x.TotalVolume(p))
}

func TestIndexRemove(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("100.5")

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))
	x.Insert(restingOrder("b-2", Buy, "100.5", 20))

	x.Remove("b-1")
	assert.Equal(t, 1, x.OrderCount(p))
	assert.Equal(t, int64(20), x.TotalVolume(p))
	assert.False(t, x.Contains("b-1"))

	// unknown id is a no-op
	x.Remove("missing")
	assert.Equal(t, 1, x.OrderCount(p))

	x.Remove("b-2")
	assert.Equal(t, 0, x.OrderCount(p))
	assert.Equal(t, int64(0), x.TotalVolume(p))
	assert.Equal(t, 0, x.LevelCount())
}

func TestIndexAmendKeepsPosition(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("100.5")

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))
	x.Insert(restingOrder("b-2", Buy, "100.5", 20))

	x.Amend("b-1", 4)
	assert.Equal(t, int64(24), x.TotalVolume(p))
	assert.Equal(t, 2, x.OrderCount(p))

	head, ok := x.HeadOrder(p)
	require.True(t, ok)
	assert.Equal(t, "b-1", head)

	// unknown id is a no-op
	x.Amend("missing", 99)
	assert.Equal(t, int64(24), x.TotalVolume(p))
}

func TestIndexHeadOrderFIFO(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("100.5")

	_, ok := x.HeadOrder(p)
	assert.False(t, ok)

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))
	x.Insert(restingOrder("b-2", Buy, "100.5", 10))
	x.Insert(restingOrder("b-3", Buy, "100.5", 10))

	head, ok := x.HeadOrder(p)
	require.True(t, ok)
	assert.Equal(t, "b-1", head)

	x.Remove("b-1")
	head, ok = x.HeadOrder(p)
	require.True(t, ok)
	assert.Equal(t, "b-2", head)

	// removing from the middle keeps the remaining order intact
	x.Insert(restingOrder("b-4", Buy, "100.5", 10))
	x.Remove("b-3")
	x.Remove("b-2")
	head, ok = x.HeadOrder(p)
	require.True(t, ok)
	assert.Equal(t, "b-4", head)
}

func TestIndexUnknownPriceQueries(t *testing.T) {
	x := NewPriceLevelIndex()
	p := udecimal.MustParse("42")

	assert.Equal(t, 0, x.OrderCount(p))
	assert.Equal(t, int64(0), x.TotalVolume(p))
	assert.False(t, x.Contains("missing"))
}

func TestIndexReserve(t *testing.T) {
	x := NewPriceLevelIndex()
	x.Reserve(512)

	x.Insert(restingOrder("b-1", Buy, "100.5", 10))

	// reserve on a non-empty index must not wipe state
	x.Reserve(1024)
	assert.True(t, x.Contains("b-1"))
	assert.Equal(t, 1, x.LevelCount())
}
