// Package store persists emitted trades in a Pebble key-value store.
// It is a sink for the matching core, never read back into it.
package store

import (
	"encoding/binary"
	"encoding/json"
	"log/slog"

	"github.com/cockroachdb/pebble"

	book "github.com/0x5487/orderbook"
)

// TradeStore writes trades to disk keyed by big-endian trade ID, so an
// ordered scan returns trades in execution order.
type TradeStore struct {
	db *pebble.DB
}

// Open opens (or creates) a trade store in dir.
func Open(dir string) (*TradeStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &TradeStore{db: db}, nil
}

// PublishTrades implements book.TradeSink. Write failures are logged;
// the matching core never blocks on persistence errors.
func (s *TradeStore) PublishTrades(trades ...*book.Trade) {
	if err := s.Put(trades...); err != nil {
		slog.Error("trade store write failed", "error", err)
	}
}

// Put writes the trades in one synced batch.
func (s *TradeStore) Put(trades ...*book.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for _, trade := range trades {
		value, err := json.Marshal(trade)
		if err != nil {
			return err
		}
		if err := batch.Set(tradeKey(trade.TradeID), value, nil); err != nil {
			return err
		}
	}

	return s.db.Apply(batch, pebble.Sync)
}

// Get returns the trade with the given ID, or book.ErrNotFound.
func (s *TradeStore) Get(tradeID uint64) (book.Trade, error) {
	value, closer, err := s.db.Get(tradeKey(tradeID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return book.Trade{}, book.ErrNotFound
		}
		return book.Trade{}, err
	}
	defer closer.Close()

	var trade book.Trade
	if err := json.Unmarshal(value, &trade); err != nil {
		return book.Trade{}, err
	}
	return trade, nil
}

// Since returns all trades with an ID strictly greater than afterID,
// in ascending ID order.
func (s *TradeStore) Since(afterID uint64) ([]book.Trade, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: tradeKey(afterID + 1),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []book.Trade
	for iter.First(); iter.Valid(); iter.Next() {
		var trade book.Trade
		if err := json.Unmarshal(iter.Value(), &trade); err != nil {
			return nil, err
		}
		out = append(out, trade)
	}
	return out, iter.Error()
}

// Close closes the underlying database.
func (s *TradeStore) Close() error {
	return s.db.Close()
}

func tradeKey(tradeID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, tradeID)
	return key
}
