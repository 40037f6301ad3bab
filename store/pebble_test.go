package store

import (
	"testing"
	"time"

	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	book "github.com/0x5487/orderbook"
)

func storedTrade(id uint64, qty int64) *book.Trade {
	return &book.Trade{
		TradeID:     id,
		BuyOrderID:  "b",
		SellOrderID: "s",
		Price:       udecimal.MustParse("100.5"),
		Qty:         qty,
		CreatedAt:   time.Unix(0, 1700000000000000000).UTC(),
	}
}

func openStore(t *testing.T) *TradeStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestTradeStorePutGet(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Put(storedTrade(1, 10), storedTrade(2, 20)))

	trade, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), trade.TradeID)
	assert.Equal(t, int64(20), trade.Qty)
	assert.True(t, trade.Price.Equal(udecimal.MustParse("100.5")))

	_, err = s.Get(99)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestTradeStorePutEmpty(t *testing.T) {
	s := openStore(t)
	assert.NoError(t, s.Put())
}

func TestTradeStoreSince(t *testing.T) {
	s := openStore(t)

	// written out of order; reads come back sorted by trade id
	require.NoError(t, s.Put(storedTrade(3, 30)))
	require.NoError(t, s.Put(storedTrade(1, 10), storedTrade(2, 20)))

	trades, err := s.Since(1)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, uint64(2), trades[0].TradeID)
	assert.Equal(t, uint64(3), trades[1].TradeID)

	trades, err = s.Since(0)
	require.NoError(t, err)
	assert.Len(t, trades, 3)

	trades, err = s.Since(3)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestTradeStorePublishTrades(t *testing.T) {
	s := openStore(t)

	s.PublishTrades(storedTrade(7, 70))

	trade, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, int64(70), trade.Qty)
}

func TestTradeStoreReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(storedTrade(1, 10)))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	trade, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), trade.TradeID)
}
