package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"AlertHub/internal/domain/models"
)

var reportZone = time.FixedZone("UTC+3", 3*60*60)

// tvExchangePriority orders the exchanges used for chart links.
var tvExchangePriority = []string{"BYBIT", "BINANCE"}

// tradingViewLink builds a chart URL for a symbol, preferring the highest
// priority exchange the symbol trades on.
func tradingViewLink(symbol string, exchanges []string) string {
	if len(exchanges) == 0 {
		return "https://www.tradingview.com/chart/?symbol=" + symbol
	}

	best := "BINANCE"
	for _, want := range tvExchangePriority {
		found := false
		for _, ex := range exchanges {
			if ex == want {
				found = true
				break
			}
		}
		if found {
			best = want
			break
		}
	}
	return fmt.Sprintf("https://www.tradingview.com/chart/?symbol=%s:%s", best, symbol)
}

// shortSymbol drops the quote/contract suffixes for compact rendering.
func shortSymbol(symbol string) string {
	s := strings.ReplaceAll(symbol, "USDT", "")
	return strings.ReplaceAll(s, "PERP", "")
}

func formatReportTime(now time.Time, stamp string) string {
	return now.In(reportZone).Format("2006-01-02 15:04:05") + " " + stamp
}

// FormatCombinedReport renders one HTML message covering both alert kinds.
// Empty sections are omitted; alerts are listed alphabetically by symbol.
// An empty result means there is nothing to send.
func FormatCombinedReport(now time.Time, lineAlerts, vwapAlerts []models.Alert, timeframe string) string {
	var sections []string

	if len(lineAlerts) > 0 {
		sorted := sortBySymbol(lineAlerts)
		lines := make([]string, 0, len(sorted)+2)
		lines = append(lines, fmt.Sprintf("<b>✴️ LINE ALERTS (%s)</b>", timeframe))
		for i, a := range sorted {
			name := a.Name
			if name == "" {
				name = "N/A"
			}
			lines = append(lines, fmt.Sprintf(`<a href="%s"><b>%d. <i>%s</i></b></a>`,
				tradingViewLink(a.Symbol, a.Exchanges), i+1, html.EscapeString(name)))
		}
		lines = append(lines, formatReportTime(now, "🈸🈸🈸"))
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(vwapAlerts) > 0 {
		sorted := sortBySymbol(vwapAlerts)
		lines := make([]string, 0, len(sorted)+2)
		lines = append(lines, fmt.Sprintf("<b>💹 VWAP ALERTS (%s)</b>", timeframe))
		for i, a := range sorted {
			symbol := a.Symbol
			if symbol == "" {
				symbol = "N/A"
			}
			anchor := a.AnchorTimeStr
			if anchor == "" {
				anchor = "N/A"
			}
			lines = append(lines, fmt.Sprintf(`<a href="%s"><b>%d. %s/<i>%s</i></b></a>`,
				tradingViewLink(symbol, a.Exchanges), i+1, shortSymbol(symbol), html.EscapeString(anchor)))
		}
		lines = append(lines, formatReportTime(now, "🈯️🈯️🈯️"))
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

func sortBySymbol(alerts []models.Alert) []models.Alert {
	sorted := make([]models.Alert, len(alerts))
	copy(sorted, alerts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })
	return sorted
}
