package alerting

import "AlertHub/internal/domain/models"

// ResolveSeries locates the candle series for a symbol in the snapshot
// index. Symbols may be registered bare ("SOL") while the index is keyed by
// trading pair ("SOLUSDT"), so a miss on the exact key retries with the
// quote suffix appended. Returns (nil, false) when neither key exists or
// the resolved series is empty.
func ResolveSeries(index map[string][]models.Candle, symbol, quoteSuffix string) ([]models.Candle, bool) {
	if symbol == "" {
		return nil, false
	}
	if candles, ok := index[symbol]; ok && len(candles) > 0 {
		return candles, true
	}
	if candles, ok := index[symbol+quoteSuffix]; ok && len(candles) > 0 {
		return candles, true
	}
	return nil, false
}

// BuildIndex maps each snapshot entry's symbol to its candle series,
// skipping entries with an empty symbol or no candles. A duplicate symbol
// overwrites the earlier entry.
func BuildIndex(snapshot *models.Snapshot) map[string][]models.Candle {
	index := make(map[string][]models.Candle, len(snapshot.Data))
	for _, entry := range snapshot.Data {
		if entry.Symbol == "" || len(entry.Candles) == 0 {
			continue
		}
		index[entry.Symbol] = entry.Candles
	}
	return index
}
