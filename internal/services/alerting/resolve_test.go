package alerting

import (
	"testing"

	"AlertHub/internal/domain/models"
)

func TestResolveSeriesExactMatch(t *testing.T) {
	index := map[string][]models.Candle{
		"SOLUSDT": {candle(0, 1, 1, 1, 1, 1)},
	}
	if _, ok := ResolveSeries(index, "SOLUSDT", "USDT"); !ok {
		t.Fatal("exact key should resolve")
	}
}

func TestResolveSeriesSuffixFallback(t *testing.T) {
	index := map[string][]models.Candle{
		"SOLUSDT": {candle(0, 1, 1, 1, 1, 1)},
	}
	candles, ok := ResolveSeries(index, "SOL", "USDT")
	if !ok {
		t.Fatal("bare symbol should resolve via suffix fallback")
	}
	if len(candles) != 1 {
		t.Fatalf("got %d candles, want 1", len(candles))
	}
}

func TestResolveSeriesNotFound(t *testing.T) {
	index := map[string][]models.Candle{
		"SOLUSDT": {candle(0, 1, 1, 1, 1, 1)},
	}
	if _, ok := ResolveSeries(index, "ZZZ", "USDT"); ok {
		t.Fatal("unknown symbol should not resolve")
	}
	if _, ok := ResolveSeries(index, "", "USDT"); ok {
		t.Fatal("empty symbol should not resolve")
	}
}

func TestResolveSeriesEmptySeries(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {},
	}
	if _, ok := ResolveSeries(index, "BTCUSDT", "USDT"); ok {
		t.Fatal("empty series should count as not found")
	}
}

func TestBuildIndexSkipsEmptyEntries(t *testing.T) {
	snap := &models.Snapshot{
		Timeframe: "1h",
		Data: []models.CoinSeries{
			{Symbol: "BTCUSDT", Candles: []models.Candle{candle(0, 1, 1, 1, 1, 1)}},
			{Symbol: "", Candles: []models.Candle{candle(0, 1, 1, 1, 1, 1)}},
			{Symbol: "ETHUSDT", Candles: nil},
		},
	}
	index := BuildIndex(snap)
	if len(index) != 1 {
		t.Fatalf("index size = %d, want 1", len(index))
	}
	if _, ok := index["BTCUSDT"]; !ok {
		t.Fatal("BTCUSDT missing from index")
	}
}

func TestBuildIndexLastWriteWins(t *testing.T) {
	snap := &models.Snapshot{
		Data: []models.CoinSeries{
			{Symbol: "BTCUSDT", Candles: []models.Candle{candle(1, 1, 1, 1, 1, 1)}},
			{Symbol: "BTCUSDT", Candles: []models.Candle{candle(2, 2, 2, 2, 2, 2), candle(3, 3, 3, 3, 3, 3)}},
		},
	}
	index := BuildIndex(snap)
	if len(index["BTCUSDT"]) != 2 {
		t.Fatalf("duplicate symbol should keep the later series, got %d candles", len(index["BTCUSDT"]))
	}
}
