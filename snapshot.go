package book

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"os"
	"sort"
)

const (
	// EngineVersion is the current version of the matching engine.
	EngineVersion = "v1.0.0"

	// SnapshotSchemaVersion is the current version of the snapshot
	// schema. Increment when the format changes incompatibly.
	SnapshotSchemaVersion = 1
)

// BookSnapshot contains the resting state of a single Book: every
// non-terminal order, best price first, FIFO order preserved within a
// level. Terminal order history is not book state and lives in the
// trade tape or store instead.
type BookSnapshot struct {
	SchemaVersion int      `json:"schema_version"`
	MarketID      string   `json:"market_id"`
	SeqID         uint64   `json:"seq_id"`
	TradeID       uint64   `json:"trade_id"`
	Bids          []*Order `json:"bids"`
	Asks          []*Order `json:"asks"`
}

// TakeSnapshot captures the current resting book.
func (b *Book) TakeSnapshot() *BookSnapshot {
	snap := &BookSnapshot{
		SchemaVersion: SnapshotSchemaVersion,
		MarketID:      b.marketID,
		SeqID:         b.seqID,
		TradeID:       b.tradeID,
		Bids:          make([]*Order, 0),
		Asks:          make([]*Order, 0),
	}

	prices := b.index.prices()

	bidIdx := make([]int, 0)
	askIdx := make([]int, 0)
	for i, p := range prices {
		headID, ok := b.index.HeadOrder(p)
		if !ok {
			continue
		}
		if b.registry.IsBuy(headID) {
			bidIdx = append(bidIdx, i)
		} else {
			askIdx = append(askIdx, i)
		}
	}

	sort.Slice(bidIdx, func(i, j int) bool {
		return prices[bidIdx[i]].GreaterThan(prices[bidIdx[j]])
	})
	sort.Slice(askIdx, func(i, j int) bool {
		return prices[askIdx[i]].LessThan(prices[askIdx[j]])
	})

	for _, i := range bidIdx {
		for _, id := range b.index.restingAt(prices[i]) {
			if order := b.registry.get(id); order != nil {
				cpy := *order
				snap.Bids = append(snap.Bids, &cpy)
			}
		}
	}
	for _, i := range askIdx {
		for _, id := range b.index.restingAt(prices[i]) {
			if order := b.registry.get(id); order != nil {
				cpy := *order
				snap.Asks = append(snap.Asks, &cpy)
			}
		}
	}

	return snap
}

// Restore rebuilds the book from a snapshot, replacing current state.
// Orders re-enter the registry with their recorded lifecycle state and
// the index in saved order, which preserves price-time priority.
func (b *Book) Restore(snap *BookSnapshot) {
	b.marketID = snap.MarketID
	b.seqID = snap.SeqID
	b.tradeID = snap.TradeID
	b.registry = NewRegistry()
	b.index = NewPriceLevelIndex()

	restore := func(orders []*Order) {
		for _, o := range orders {
			cpy := *o
			b.registry.orders[cpy.ID] = &cpy
			b.index.Insert(&cpy)
		}
	}

	restore(snap.Bids)
	restore(snap.Asks)
}

// SaveSnapshot writes the snapshot as JSON followed by a 4-byte
// big-endian CRC32 of the payload, so a truncated or corrupted file is
// detected on load. The write goes through a temp file and rename for
// atomicity.
func SaveSnapshot(path string, snap *BookSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	checksum := crc32.ChecksumIEEE(data)
	buf := make([]byte, len(data)+4)
	copy(buf, data)
	binary.BigEndian.PutUint32(buf[len(data):], checksum)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads and verifies a snapshot file written by
// SaveSnapshot. Returns ErrChecksum when the payload does not match
// its recorded CRC32 and ErrSchemaVer when the snapshot was written
// with an incompatible schema.
func LoadSnapshot(path string) (*BookSnapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, ErrChecksum
	}

	data := buf[:len(buf)-4]
	checksum := binary.BigEndian.Uint32(buf[len(buf)-4:])
	if crc32.ChecksumIEEE(data) != checksum {
		return nil, ErrChecksum
	}

	var snap BookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.SchemaVersion != SnapshotSchemaVersion {
		return nil, ErrSchemaVer
	}
	return &snap, nil
}
