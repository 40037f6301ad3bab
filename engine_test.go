package book

import (
	"testing"

	"github.com/quagmt/udecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingEngineRouting(t *testing.T) {
	engine := NewMatchingEngine(nil)

	_, err := engine.Submit("BTC-USDT", placeLimit("b-1", Buy, "100", 10))
	require.NoError(t, err)
	_, err = engine.Submit("ETH-USDT", placeLimit("b-1", Buy, "50", 10))
	require.NoError(t, err)

	// same order id in different markets is fine: books are isolated
	assert.True(t, engine.Book("BTC-USDT").BestBid().Equal(udecimal.MustParse("100")))
	assert.True(t, engine.Book("ETH-USDT").BestBid().Equal(udecimal.MustParse("50")))
	assert.ElementsMatch(t, []string{"BTC-USDT", "ETH-USDT"}, engine.Markets())

	trades, err := engine.Submit("BTC-USDT", placeLimit("s-1", Sell, "100", 10))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	// the other market is untouched
	assert.True(t, engine.Book("ETH-USDT").BestBid().Equal(udecimal.MustParse("50")))
}

func TestMatchingEngineUnknownMarket(t *testing.T) {
	engine := NewMatchingEngine(nil)

	assert.False(t, engine.Cancel("NOPE", "o-1"))
	assert.False(t, engine.AmendQuantity("NOPE", "o-1", 5))
	assert.False(t, engine.ReplacePrice("NOPE", "o-1", udecimal.MustParse("100")))

	// mutators on unknown markets must not create books
	assert.Empty(t, engine.Markets())
}

func TestMatchingEngineMutations(t *testing.T) {
	engine := NewMatchingEngine(nil)

	_, err := engine.Submit("BTC-USDT", placeLimit("b-1", Buy, "100", 10))
	require.NoError(t, err)

	assert.True(t, engine.AmendQuantity("BTC-USDT", "b-1", 5))
	assert.Equal(t, int64(5), engine.Book("BTC-USDT").TotalVolume(udecimal.MustParse("100")))

	assert.True(t, engine.ReplacePrice("BTC-USDT", "b-1", udecimal.MustParse("99")))
	assert.True(t, engine.Book("BTC-USDT").BestBid().Equal(udecimal.MustParse("99")))

	assert.True(t, engine.Cancel("BTC-USDT", "b-1"))
	assert.False(t, engine.Cancel("BTC-USDT", "b-1"))
}

func TestMatchingEngineSharedPublisher(t *testing.T) {
	publisher := NewMemoryPublishLog()
	engine := NewMatchingEngine(publisher)

	_, err := engine.Submit("BTC-USDT", placeLimit("b-1", Buy, "100", 10))
	require.NoError(t, err)
	_, err = engine.Submit("ETH-USDT", placeLimit("s-1", Sell, "50", 10))
	require.NoError(t, err)

	logs := publisher.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "BTC-USDT", logs[0].MarketID)
	assert.Equal(t, "ETH-USDT", logs[1].MarketID)
}
