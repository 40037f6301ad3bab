package book

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
)

// CSVTradeLogger batches trades and writes them to a CSV file. Writes
// hit the file only when the batch fills up or Flush/Close is called,
// keeping file I/O off the matching hot path.
//
// Columns: trade_id, buy_order_id, sell_order_id, price, qty, ts_ns.
type CSVTradeLogger struct {
	mu        sync.Mutex
	file      *os.File
	writer    *csv.Writer
	buffer    []*Trade
	batchSize int
}

// NewCSVTradeLogger creates (truncating) the file at path and writes
// the header row. batchSize <= 0 defaults to 4096.
func NewCSVTradeLogger(path string, batchSize int) (*CSVTradeLogger, error) {
	if batchSize <= 0 {
		batchSize = 4096
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"trade_id", "buy_order_id", "sell_order_id", "price", "qty", "ts_ns"}); err != nil {
		file.Close()
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, err
	}

	return &CSVTradeLogger{
		file:      file,
		writer:    writer,
		buffer:    make([]*Trade, 0, batchSize),
		batchSize: batchSize,
	}, nil
}

// PublishTrades buffers the trades, flushing when the batch is full.
func (l *CSVTradeLogger) PublishTrades(trades ...*Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, trade := range trades {
		cpy := *trade
		l.buffer = append(l.buffer, &cpy)
		if len(l.buffer) >= l.batchSize {
			if err := l.flushLocked(); err != nil {
				logger.Error("csv trade logger flush failed", "error", err)
				return
			}
		}
	}
}

// Flush writes any buffered trades to the file.
func (l *CSVTradeLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *CSVTradeLogger) flushLocked() error {
	for _, t := range l.buffer {
		record := []string{
			strconv.FormatUint(t.TradeID, 10),
			t.BuyOrderID,
			t.SellOrderID,
			t.Price.String(),
			strconv.FormatInt(t.Qty, 10),
			strconv.FormatInt(t.CreatedAt.UnixNano(), 10),
		}
		if err := l.writer.Write(record); err != nil {
			return err
		}
	}
	l.buffer = l.buffer[:0]

	l.writer.Flush()
	return l.writer.Error()
}

// Close flushes buffered trades and closes the file.
func (l *CSVTradeLogger) Close() error {
	if err := l.Flush(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
