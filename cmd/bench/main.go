// Command bench measures tick-to-trade latency of the matching core
// under synthetic load, optionally exporting trades to CSV and to a
// Pebble store.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	book "github.com/0x5487/orderbook"
	"github.com/0x5487/orderbook/bench"
	"github.com/0x5487/orderbook/sim"
	"github.com/0x5487/orderbook/store"
)

func main() {
	var (
		ticks    = flag.Int("ticks", 10000, "number of synthetic ticks per trial")
		seed     = flag.Int64("seed", 2025, "rng seed for the tick feed and order flow")
		market   = flag.String("market", "SYM0", "market id used for the book")
		matrix   = flag.Bool("matrix", false, "run the load x reserve trial matrix instead of a single trial")
		reserve  = flag.Bool("reserve", true, "pre-reserve registry/index capacity")
		csvPath  = flag.String("csv", "", "write executed trades to this CSV file")
		storeDir = flag.String("store", "", "persist executed trades to a pebble store at this directory")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	book.SetLogger(logger)
	logger.Info("bench starting", "engine_version", book.EngineVersion)

	if *matrix {
		for _, load := range []int{1000, 10000, 100000} {
			for _, pre := range []bool{false, true} {
				runTrial(logger, trialConfig{
					market:  *market,
					ticks:   load,
					reserve: pre,
					seed:    *seed,
				})
			}
		}
		return
	}

	cfg := trialConfig{
		market:   *market,
		ticks:    *ticks,
		reserve:  *reserve,
		seed:     *seed,
		csvPath:  *csvPath,
		storeDir: *storeDir,
	}
	runTrial(logger, cfg)
}

type trialConfig struct {
	market   string
	ticks    int
	reserve  bool
	seed     int64
	csvPath  string
	storeDir string
}

func runTrial(logger *slog.Logger, cfg trialConfig) {
	var sinks []book.TradeSink

	if cfg.csvPath != "" {
		csvLogger, err := book.NewCSVTradeLogger(cfg.csvPath, 4096)
		if err != nil {
			logger.Error("failed to open csv trade logger", "error", err, "path", cfg.csvPath)
			os.Exit(1)
		}
		defer func() {
			if err := csvLogger.Close(); err != nil {
				logger.Error("failed to close csv trade logger", "error", err)
			}
		}()
		sinks = append(sinks, csvLogger)
	}

	if cfg.storeDir != "" {
		tradeStore, err := store.Open(cfg.storeDir)
		if err != nil {
			logger.Error("failed to open trade store", "error", err, "dir", cfg.storeDir)
			os.Exit(1)
		}
		defer func() {
			if err := tradeStore.Close(); err != nil {
				logger.Error("failed to close trade store", "error", err)
			}
		}()
		sinks = append(sinks, tradeStore)
	}

	b := book.NewBook(cfg.market)
	if cfg.reserve {
		b.Reserve(cfg.ticks)
	}

	feed := sim.NewFeed(cfg.seed)
	flow := sim.NewOrderFlow(cfg.seed + 1)
	recorder := bench.NewRecorder(cfg.ticks)

	submitted := 0
	executed := 0

	for _, md := range feed.GenerateTicks(cfg.ticks) {
		cmd := flow.Next(md)

		start := time.Now()
		trades, err := b.Submit(cmd)
		if err != nil {
			continue
		}
		submitted++

		if len(trades) == 0 {
			continue
		}
		recorder.Record(time.Since(start).Nanoseconds())
		executed += len(trades)

		refs := make([]*book.Trade, len(trades))
		for i := range trades {
			refs[i] = &trades[i]
		}
		for _, sink := range sinks {
			sink.PublishTrades(refs...)
		}
	}

	stats := recorder.Stats()
	logger.Info("trial complete",
		"market", cfg.market,
		"ticks", cfg.ticks,
		"reserve", cfg.reserve,
		"orders_submitted", submitted,
		"trades", executed,
		"samples", stats.Samples,
		"min_ns", stats.Min,
		"max_ns", stats.Max,
		"mean_ns", stats.Mean,
		"stddev_ns", stats.StdDev,
		"p50_ns", stats.P50,
		"p90_ns", stats.P90,
		"p99_ns", stats.P99,
		"best_bid", b.BestBid().String(),
		"best_ask", b.BestAsk().String(),
		"levels", b.LevelCount(),
	)
}
