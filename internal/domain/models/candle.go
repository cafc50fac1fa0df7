package models

import "time"

// Candle is one OHLCV observation over a fixed time bucket. Prices are
// pointers because upstream feeds occasionally emit entries with missing
// fields; evaluation must distinguish "missing" from zero.
type Candle struct {
	OpenTime    int64    `json:"openTime"`
	OpenPrice   *float64 `json:"openPrice"`
	HighPrice   *float64 `json:"highPrice"`
	LowPrice    *float64 `json:"lowPrice"`
	ClosePrice  *float64 `json:"closePrice"`
	Volume      float64  `json:"volume"`
	VolumeDelta float64  `json:"volumeDelta"`
	CloseTime   int64    `json:"closeTime,omitempty"`
}

// Coin is one tracked symbol with the exchanges it trades on.
type Coin struct {
	Symbol    string   `json:"symbol"`
	Exchanges []string `json:"exchanges"`
}

// CoinSeries is one symbol's candle series within a snapshot.
type CoinSeries struct {
	Symbol    string   `json:"symbol"`
	Exchanges []string `json:"exchanges"`
	Candles   []Candle `json:"candles"`
}

// FailedCoin records a per-symbol fetch failure. Failures are collected,
// never fatal to the batch.
type FailedCoin struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// Snapshot is one batch of per-symbol candle series for a timeframe,
// built fresh each job run and consumed synchronously.
type Snapshot struct {
	Timeframe   string       `json:"timeframe"`
	OpenTime    int64        `json:"openTime"`
	UpdatedAt   int64        `json:"updatedAt"`
	CoinsNumber int          `json:"coinsNumber"`
	Data        []CoinSeries `json:"data"`
}

// TimeframeDuration maps a timeframe label to its bucket duration.
func TimeframeDuration(tf string) time.Duration {
	switch tf {
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	default:
		return time.Hour
	}
}

// CurrentBucketStart returns the open time (ms) of the bucket containing now.
func CurrentBucketStart(now time.Time, tf string) int64 {
	return now.UTC().Truncate(TimeframeDuration(tf)).UnixMilli()
}
