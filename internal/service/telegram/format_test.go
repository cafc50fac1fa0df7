package telegram

import (
	"strings"
	"testing"
	"time"

	"AlertHub/internal/domain/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestTradingViewLink(t *testing.T) {
	cases := []struct {
		symbol    string
		exchanges []string
		want      string
	}{
		{"BTCUSDT", nil, "https://www.tradingview.com/chart/?symbol=BTCUSDT"},
		{"BTCUSDT", []string{"BINANCE"}, "https://www.tradingview.com/chart/?symbol=BINANCE:BTCUSDT"},
		{"BTCUSDT", []string{"BINANCE", "BYBIT"}, "https://www.tradingview.com/chart/?symbol=BYBIT:BTCUSDT"},
		{"BTCUSDT", []string{"OKX"}, "https://www.tradingview.com/chart/?symbol=BINANCE:BTCUSDT"},
	}
	for _, tc := range cases {
		if got := tradingViewLink(tc.symbol, tc.exchanges); got != tc.want {
			t.Errorf("tradingViewLink(%q, %v) = %q, want %q", tc.symbol, tc.exchanges, got, tc.want)
		}
	}
}

func TestShortSymbol(t *testing.T) {
	if got := shortSymbol("SOLUSDT"); got != "SOL" {
		t.Fatalf("shortSymbol = %q, want SOL", got)
	}
	if got := shortSymbol("1000PEPEUSDTPERP"); got != "1000PEPE" {
		t.Fatalf("shortSymbol = %q, want 1000PEPE", got)
	}
}

func TestFormatCombinedReportEmpty(t *testing.T) {
	if got := FormatCombinedReport(testNow, nil, nil, "1h"); got != "" {
		t.Fatalf("empty inputs should produce an empty report, got %q", got)
	}
}

func TestFormatCombinedReportLineOnly(t *testing.T) {
	alerts := []models.Alert{
		{Symbol: "ETHUSDT", Name: "ETH breakout", Exchanges: []string{"BINANCE"}},
		{Symbol: "BTCUSDT", Name: "BTC level", Exchanges: []string{"BYBIT"}},
	}
	msg := FormatCombinedReport(testNow, alerts, nil, "1h")

	if !strings.Contains(msg, "✴️ LINE ALERTS (1h)") {
		t.Fatal("line section header missing")
	}
	if strings.Contains(msg, "VWAP ALERTS") {
		t.Fatal("empty VWAP section must be omitted")
	}
	// alphabetical by symbol: BTC before ETH
	if strings.Index(msg, "BTC level") > strings.Index(msg, "ETH breakout") {
		t.Fatal("alerts not sorted by symbol")
	}
	if !strings.Contains(msg, "BYBIT:BTCUSDT") {
		t.Fatal("chart link missing")
	}
	if !strings.Contains(msg, "2025-06-01 15:00:00 🈸🈸🈸") {
		t.Fatalf("report time not rendered in UTC+3: %q", msg)
	}
}

func TestFormatCombinedReportVwapSection(t *testing.T) {
	alerts := []models.Alert{
		{Symbol: "SOLUSDT", AnchorTimeStr: "2025-05-30 10:00:00", Exchanges: []string{"BYBIT"}},
	}
	msg := FormatCombinedReport(testNow, nil, alerts, "1h")

	if !strings.Contains(msg, "💹 VWAP ALERTS (1h)") {
		t.Fatal("vwap section header missing")
	}
	if !strings.Contains(msg, "SOL/<i>2025-05-30 10:00:00</i>") {
		t.Fatalf("shortened symbol with anchor rendering missing: %q", msg)
	}
}

func TestFormatCombinedReportRendersClientAnchor(t *testing.T) {
	req := models.AlertRequest{
		Symbol:        "SOLUSDT",
		Name:          "sol accumulation",
		AnchorTime:    1748660400000,
		AnchorTimeStr: "2025-05-31 03:00:00",
	}
	alert := req.ToAlert(testNow.UnixMilli())
	if alert.AnchorTimeStr != "2025-05-31 03:00:00" {
		t.Fatalf("anchor string lost in conversion: %q", alert.AnchorTimeStr)
	}

	msg := FormatCombinedReport(testNow, nil, []models.Alert{alert}, "1h")
	if !strings.Contains(msg, "SOL/<i>2025-05-31 03:00:00</i>") {
		t.Fatalf("anchor string not rendered: %q", msg)
	}
	if strings.Contains(msg, "N/A") {
		t.Fatalf("anchor fell back to the placeholder: %q", msg)
	}
}

func TestFormatCombinedReportEscapesHTML(t *testing.T) {
	alerts := []models.Alert{
		{Symbol: "BTCUSDT", Name: "break <above> & hold"},
	}
	msg := FormatCombinedReport(testNow, alerts, nil, "1h")
	if strings.Contains(msg, "<above>") {
		t.Fatal("alert name must be HTML-escaped")
	}
	if !strings.Contains(msg, "&lt;above&gt; &amp; hold") {
		t.Fatalf("escaped name missing: %q", msg)
	}
}

func TestFormatCombinedReportBothSections(t *testing.T) {
	line := []models.Alert{{Symbol: "BTCUSDT", Name: "level"}}
	vwap := []models.Alert{{Symbol: "ETHUSDT", AnchorTimeStr: "2025-05-30 10:00:00"}}
	msg := FormatCombinedReport(testNow, line, vwap, "1h")

	lineIdx := strings.Index(msg, "LINE ALERTS")
	vwapIdx := strings.Index(msg, "VWAP ALERTS")
	if lineIdx < 0 || vwapIdx < 0 || lineIdx > vwapIdx {
		t.Fatalf("expected line section before vwap section: %q", msg)
	}
}
