package kline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"AlertHub/internal/domain/models"
	pkghttp "AlertHub/pkg/http"
)

const binanceKlinesURL = "https://fapi.binance.com/fapi/v1/klines"

// binanceInterval maps a timeframe label to the fapi interval parameter.
func binanceInterval(tf string) string {
	switch tf {
	case "1h":
		return "1h"
	default:
		return "1h"
	}
}

// fetchBinanceKlines loads perp candles for one symbol. Volume is the
// quote-asset volume and the delta is taker-buy quote volume minus the
// seller side, matching how the downstream evaluators weight candles.
func fetchBinanceKlines(ctx context.Context, client *pkghttp.Client, symbol, timeframe string, limit int) ([]models.Candle, error) {
	var raw []json.RawMessage
	err := client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: http.MethodGet,
		URL:    binanceKlinesURL,
		Query: url.Values{
			"symbol":   {symbol},
			"interval": {binanceInterval(timeframe)},
			"limit":    {strconv.Itoa(limit)},
		},
		Headers: map[string]string{
			"Accept": "application/json",
		},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, entry := range raw {
		var fields []json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			return nil, fmt.Errorf("binance kline entry %s: %w", symbol, err)
		}
		if len(fields) < 11 {
			return nil, fmt.Errorf("binance kline entry %s: %d fields", symbol, len(fields))
		}

		openTime, err := parseInt(fields[0])
		if err != nil {
			return nil, fmt.Errorf("binance openTime %s: %w", symbol, err)
		}
		closeTime, err := parseInt(fields[6])
		if err != nil {
			return nil, fmt.Errorf("binance closeTime %s: %w", symbol, err)
		}

		open := parseFloatField(fields[1])
		high := parseFloatField(fields[2])
		low := parseFloatField(fields[3])
		closep := parseFloatField(fields[4])
		quoteVolume := derefOrZero(parseFloatField(fields[7]))
		takerBuyQuote := derefOrZero(parseFloatField(fields[10]))

		sellerQuote := quoteVolume - takerBuyQuote
		delta := takerBuyQuote - sellerQuote

		candles = append(candles, models.Candle{
			OpenTime:    openTime,
			OpenPrice:   open,
			HighPrice:   high,
			LowPrice:    low,
			ClosePrice:  closep,
			Volume:      quoteVolume,
			VolumeDelta: math.Round(delta*100) / 100,
			CloseTime:   closeTime,
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	return dropUnclosed(candles), nil
}

// dropUnclosed removes the newest candle, which is still forming when the
// exchange returns it mid-bucket.
func dropUnclosed(candles []models.Candle) []models.Candle {
	if len(candles) > 2 {
		return candles[:len(candles)-1]
	}
	return candles
}

func parseInt(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseFloatField decodes a numeric-or-string field; nil means missing.
func parseFloatField(raw json.RawMessage) *float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func derefOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
