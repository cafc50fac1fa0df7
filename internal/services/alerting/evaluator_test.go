package alerting

import (
	"testing"
	"time"

	"AlertHub/internal/domain/models"
)

const hourMs = int64(time.Hour / time.Millisecond)

func testEvaluator() *Evaluator {
	e := NewEvaluator("USDT")
	e.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func lineAlert(id, symbol string, price float64) models.Alert {
	return models.Alert{
		ID:       id,
		Symbol:   symbol,
		Name:     symbol + " line",
		Action:   "cross",
		Price:    price,
		IsActive: true,
	}
}

func vwapAlert(id, symbol string, anchor int64) models.Alert {
	return models.Alert{
		ID:         id,
		Symbol:     symbol,
		Name:       symbol + " vwap",
		Action:     "cross",
		IsActive:   true,
		AnchorTime: anchor,
	}
}

func TestLineAlertTriggersInsideBody(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	alerts := []models.Alert{
		lineAlert("a", "BTCUSDT", 50),
		lineAlert("b", "BTCUSDT", 100),
		lineAlert("c", "BTCUSDT", 150),
	}

	triggered := testEvaluator().CheckLineAlerts(index, alerts)
	if len(triggered) != 1 {
		t.Fatalf("got %d triggered, want 1", len(triggered))
	}
	if triggered[0].Price != 100 {
		t.Fatalf("triggered alert price = %v, want 100", triggered[0].Price)
	}
}

func TestLineAlertBoundaryInclusive(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	for _, price := range []float64{90, 105} {
		triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{lineAlert("a", "BTCUSDT", price)})
		if len(triggered) != 1 {
			t.Fatalf("price %v at body boundary should trigger", price)
		}
	}
}

func TestLineAlertDescendingBody(t *testing.T) {
	// open above close: body interval is [close, open]
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 105, 110, 85, 90, 100)},
	}
	triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{lineAlert("a", "BTCUSDT", 100)})
	if len(triggered) != 1 {
		t.Fatal("price inside a descending body should trigger")
	}
}

func TestLineAlertUsesLastCandle(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(0, 90, 110, 85, 105, 100),
			candle(hourMs, 200, 210, 195, 205, 100),
		},
	}
	triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{lineAlert("a", "BTCUSDT", 100)})
	if len(triggered) != 0 {
		t.Fatal("only the most recent candle body decides crossing")
	}
}

func TestLineAlertTriggeredRecordFields(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	src := lineAlert("orig-id", "BTCUSDT", 100)
	triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{src})
	if len(triggered) != 1 {
		t.Fatal("expected a trigger")
	}

	out := triggered[0]
	if out.ID == "" || out.ID == src.ID {
		t.Fatalf("triggered copy must carry a fresh id, got %q", out.ID)
	}
	if out.ActivationTime == 0 {
		t.Fatal("activation time not set")
	}
	if out.ActivationTimeStr != "2025-06-01 15:00:00" {
		t.Fatalf("activation rendering = %q, want UTC+3 2025-06-01 15:00:00", out.ActivationTimeStr)
	}
	if out.HighPrice == nil || *out.HighPrice != 110 {
		t.Fatalf("high price not copied from candle: %v", out.HighPrice)
	}
	if out.LowPrice == nil || *out.LowPrice != 85 {
		t.Fatalf("low price not copied from candle: %v", out.LowPrice)
	}
	if out.Price != 100 {
		t.Fatal("line trigger must not alter the target price")
	}
	if out.Symbol != src.Symbol || out.Name != src.Name {
		t.Fatal("source fields must be copied unchanged")
	}
}

func TestLineAlertSkipsMissingPrices(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {{OpenTime: 0, Volume: 100}},
	}
	triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{lineAlert("a", "BTCUSDT", 100)})
	if len(triggered) != 0 {
		t.Fatal("candle with missing open/close must not trigger")
	}
}

func TestLineAlertUnresolvedSymbolSkipped(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	alerts := []models.Alert{
		lineAlert("a", "ZZZ", 100),
		lineAlert("b", "", 100),
		lineAlert("c", "BTCUSDT", 100),
	}
	triggered := testEvaluator().CheckLineAlerts(index, alerts)
	if len(triggered) != 1 {
		t.Fatalf("got %d triggered, want 1 (only the resolvable alert)", len(triggered))
	}
}

func TestLineAlertSuffixFallback(t *testing.T) {
	index := map[string][]models.Candle{
		"SOLUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	triggered := testEvaluator().CheckLineAlerts(index, []models.Alert{lineAlert("a", "SOL", 100)})
	if len(triggered) != 1 {
		t.Fatal("bare symbol should evaluate against the suffixed series")
	}
}

func TestVwapAlertTriggersOnWindowVwap(t *testing.T) {
	anchor := int64(0)
	// three accumulation candles, all at price 100, then a candle whose
	// body spans the accumulated VWAP
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(0, 100, 100, 100, 100, 10),
			candle(hourMs, 100, 100, 100, 100, 10),
			candle(2*hourMs, 100, 100, 100, 100, 10),
			candle(3*hourMs, 95, 120, 90, 110, 10),
		},
	}

	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", anchor)})
	if len(triggered) != 1 {
		t.Fatalf("got %d triggered, want 1", len(triggered))
	}

	out := triggered[0]
	if out.Price != out.AnchorPrice {
		t.Fatal("price and anchorPrice must both carry the computed VWAP")
	}
	if out.Price < 95 || out.Price > 110 {
		t.Fatalf("computed VWAP %v outside the final candle body", out.Price)
	}
}

func TestVwapAlertNoTriggerWhenBodyAway(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(0, 100, 100, 100, 100, 10),
			candle(hourMs, 100, 100, 100, 100, 10),
			// final body entirely above the accumulated VWAP
			candle(2*hourMs, 150, 160, 145, 155, 10),
		},
	}
	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", 0)})
	if len(triggered) != 0 {
		t.Fatal("final body away from VWAP must not trigger")
	}
}

func TestVwapAlertInsufficientHistory(t *testing.T) {
	// earliest candle opens after the anchor: history is truncated
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(5*hourMs, 95, 120, 90, 110, 10),
			candle(6*hourMs, 95, 120, 90, 110, 10),
		},
	}
	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", 2 * hourMs)})
	if len(triggered) != 0 {
		t.Fatal("truncated history must never trigger")
	}
}

func TestVwapAlertMissingAnchorSkipped(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 95, 120, 90, 110, 10)},
	}
	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", 0)})
	if len(triggered) != 0 {
		t.Fatal("alert without an anchor must be skipped")
	}
}

func TestVwapAlertZeroVolumeWindowSkipped(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(0, 100, 100, 100, 100, 0),
			candle(hourMs, 95, 120, 90, 110, 0),
		},
	}
	// VWAP is undefined (0) over a zero-volume window
	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", 1)})
	if len(triggered) != 0 {
		t.Fatal("undefined VWAP must not trigger")
	}
}

func TestVwapAlertSecondsAnchorNormalized(t *testing.T) {
	// 1748736000 is 10 digits: seconds, normalized to ms
	anchorSec := int64(1748736000)
	anchorMs := anchorSec * 1000
	index := map[string][]models.Candle{
		"BTCUSDT": {
			candle(anchorMs, 100, 100, 100, 100, 10),
			candle(anchorMs+hourMs, 95, 120, 90, 110, 10),
		},
	}
	triggered := testEvaluator().CheckVwapAlerts(index, []models.Alert{vwapAlert("a", "BTCUSDT", anchorSec)})
	if len(triggered) != 1 {
		t.Fatal("seconds-resolution anchor should normalize and trigger")
	}
}

func TestNormalizeAnchorMs(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{1748736000, 1748736000000},      // 10 digits: seconds
		{1748736000000, 1748736000000},   // 13 digits: already ms
		{999999999, 999999999},           // 9 digits: left alone
	}
	for _, tc := range cases {
		if got := NormalizeAnchorMs(tc.in); got != tc.want {
			t.Errorf("NormalizeAnchorMs(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEvaluationDeterministicMatchSet(t *testing.T) {
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
	}
	alerts := []models.Alert{
		lineAlert("a", "BTCUSDT", 100),
		lineAlert("b", "BTCUSDT", 200),
	}

	e := testEvaluator()
	first := e.CheckLineAlerts(index, alerts)
	second := e.CheckLineAlerts(index, alerts)
	if len(first) != len(second) {
		t.Fatalf("match set changed between runs: %d vs %d", len(first), len(second))
	}
	if first[0].Symbol != second[0].Symbol || first[0].Price != second[0].Price {
		t.Fatal("same inputs must select the same alerts")
	}
}

func TestMalformedAlertDoesNotAbortBatch(t *testing.T) {
	// series resolvable but empty index entry for the first alert forces
	// a skip, and a nil-candle series would panic without the per-alert
	// recovery
	index := map[string][]models.Candle{
		"BTCUSDT": {candle(0, 90, 110, 85, 105, 100)},
		"BAD":     {{OpenTime: 0, Volume: 1}},
	}
	alerts := []models.Alert{
		lineAlert("bad", "BAD", 100),
		lineAlert("good", "BTCUSDT", 100),
	}
	triggered := testEvaluator().CheckLineAlerts(index, alerts)
	if len(triggered) != 1 {
		t.Fatalf("valid alert must still trigger, got %d", len(triggered))
	}
	if triggered[0].Symbol != "BTCUSDT" {
		t.Fatalf("wrong alert triggered: %s", triggered[0].Symbol)
	}
}
