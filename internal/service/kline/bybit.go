package kline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"AlertHub/internal/domain/models"
	pkghttp "AlertHub/pkg/http"
)

const bybitKlinesURL = "https://api.bybit.com/v5/market/kline"

// bybitInterval maps a timeframe label to the v5 interval parameter.
func bybitInterval(tf string) string {
	switch tf {
	case "1h":
		return "60"
	default:
		return "60"
	}
}

type bybitKlineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List [][]string `json:"list"`
	} `json:"result"`
}

// fetchBybitKlines loads linear perp candles for one symbol. The v5 API
// returns rows newest-first with no taker-buy split, so the delta is zero.
func fetchBybitKlines(ctx context.Context, client *pkghttp.Client, symbol, timeframe string, limit int) ([]models.Candle, error) {
	var resp bybitKlineResponse
	err := client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    bybitKlinesURL,
		Query: url.Values{
			"category": {"linear"},
			"symbol":   {symbol},
			"interval": {bybitInterval(timeframe)},
			"limit":    {strconv.Itoa(limit)},
		},
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("bybit klines %s: %w", symbol, err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit klines %s: retCode %d %s", symbol, resp.RetCode, resp.RetMsg)
	}
	if len(resp.Result.List) == 0 {
		return nil, fmt.Errorf("bybit klines %s: no data", symbol)
	}

	candles := make([]models.Candle, 0, len(resp.Result.List))
	for _, row := range resp.Result.List {
		if len(row) < 7 {
			return nil, fmt.Errorf("bybit kline row %s: %d fields", symbol, len(row))
		}
		openTime, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bybit openTime %s: %w", symbol, err)
		}

		candles = append(candles, models.Candle{
			OpenTime:   openTime,
			OpenPrice:  parseFloatString(row[1]),
			HighPrice:  parseFloatString(row[2]),
			LowPrice:   parseFloatString(row[3]),
			ClosePrice: parseFloatString(row[4]),
			// row[6] is turnover: quote-asset volume, matching Binance
			Volume: derefOrZero(parseFloatString(row[6])),
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	return dropUnclosed(candles), nil
}

func parseFloatString(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
