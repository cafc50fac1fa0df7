package kline

import (
	"context"
	"sync"
	"time"

	"AlertHub/internal/domain/models"
	"AlertHub/internal/service/ratelimit"
	pkghttp "AlertHub/pkg/http"
	applogger "AlertHub/pkg/logger"
)

// FetcherOption configures Fetcher.
type FetcherOption func(*Fetcher)

// Fetcher assembles a market snapshot by pulling candle series for every
// tracked coin from its listing exchange. Coins listed on Binance are
// fetched there (its data carries the taker-buy volume split); everything
// else falls back to Bybit. Per-coin failures are collected, never fatal.
type Fetcher struct {
	client    *pkghttp.Client
	limiter   *ratelimit.Limiter
	logger    *applogger.Logger
	timeframe string
	limit     int
	batchSize int
	delay     time.Duration
	now       func() time.Time
}

// NewFetcher creates a snapshot fetcher.
func NewFetcher(logger *applogger.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    pkghttp.NewClient(pkghttp.WithTimeout(20 * time.Second)),
		limiter:   ratelimit.New(),
		logger:    logger,
		timeframe: "1h",
		limit:     400,
		batchSize: 50,
		delay:     100 * time.Millisecond,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithTimeframe sets the candle timeframe.
func WithTimeframe(tf string) FetcherOption {
	return func(f *Fetcher) {
		if tf != "" {
			f.timeframe = tf
		}
	}
}

// WithLimit sets how many candles to request per symbol.
func WithLimit(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.limit = n
		}
	}
}

// WithBatch sets the concurrent batch size and inter-batch delay.
func WithBatch(size int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.batchSize = size
		}
		if delay >= 0 {
			f.delay = delay
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = pkghttp.NewClient(pkghttp.WithTimeout(d))
		}
	}
}

type fetchResult struct {
	series models.CoinSeries
	failed *models.FailedCoin
}

// FetchSnapshot pulls candles for all coins and builds one snapshot.
// The returned failures list one entry per coin that could not be loaded.
func (f *Fetcher) FetchSnapshot(ctx context.Context, coins []models.Coin) (*models.Snapshot, []models.FailedCoin) {
	results := make([]fetchResult, 0, len(coins))

	for start := 0; start < len(coins); start += f.batchSize {
		end := start + f.batchSize
		if end > len(coins) {
			end = len(coins)
		}
		batch := coins[start:end]

		var wg sync.WaitGroup
		batchResults := make([]fetchResult, len(batch))
		for i, coin := range batch {
			wg.Add(1)
			go func(i int, coin models.Coin) {
				defer wg.Done()
				batchResults[i] = f.fetchOne(ctx, coin)
			}(i, coin)
		}
		wg.Wait()
		results = append(results, batchResults...)

		f.logger.Debug("kline fetch progress",
			applogger.Int("done", end),
			applogger.Int("total", len(coins)),
		)

		if end < len(coins) && f.delay > 0 {
			select {
			case <-ctx.Done():
				for _, coin := range coins[end:] {
					results = append(results, fetchResult{
						failed: &models.FailedCoin{Symbol: coin.Symbol, Error: ctx.Err().Error()},
					})
				}
				start = len(coins)
			case <-time.After(f.delay):
			}
		}
	}

	snapshot := &models.Snapshot{
		Timeframe: f.timeframe,
		OpenTime:  models.CurrentBucketStart(f.now(), f.timeframe),
		UpdatedAt: f.now().UnixMilli(),
	}
	failed := make([]models.FailedCoin, 0)
	for _, r := range results {
		if r.failed != nil {
			failed = append(failed, *r.failed)
			continue
		}
		snapshot.Data = append(snapshot.Data, r.series)
	}
	snapshot.CoinsNumber = len(snapshot.Data)

	f.logger.Info("kline snapshot built",
		applogger.String("timeframe", f.timeframe),
		applogger.Int("ok", snapshot.CoinsNumber),
		applogger.Int("failed", len(failed)),
	)
	return snapshot, failed
}

func (f *Fetcher) fetchOne(ctx context.Context, coin models.Coin) fetchResult {
	exchange := "bybit"
	for _, ex := range coin.Exchanges {
		if ex == "BINANCE" {
			exchange = "binance"
			break
		}
	}

	// pace each exchange independently; drop the coin on a saturated bucket
	// rather than stalling the whole batch
	deadline := time.Now().Add(30 * time.Second)
	if !f.limiter.Wait(exchange, float64(f.batchSize), float64(f.batchSize)/2, deadline) {
		return fetchResult{failed: &models.FailedCoin{Symbol: coin.Symbol, Error: "rate limit wait timeout"}}
	}

	var (
		candles []models.Candle
		err     error
	)
	if exchange == "binance" {
		candles, err = fetchBinanceKlines(ctx, f.client, coin.Symbol, f.timeframe, f.limit)
	} else {
		candles, err = fetchBybitKlines(ctx, f.client, coin.Symbol, f.timeframe, f.limit)
	}
	if err != nil {
		f.logger.Warn("kline fetch failed",
			applogger.String("symbol", coin.Symbol),
			applogger.String("exchange", exchange),
			applogger.Error(err),
		)
		return fetchResult{failed: &models.FailedCoin{Symbol: coin.Symbol, Error: err.Error()}}
	}

	return fetchResult{series: models.CoinSeries{
		Symbol:    coin.Symbol,
		Exchanges: coin.Exchanges,
		Candles:   candles,
	}}
}
