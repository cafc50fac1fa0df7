package alerting

import "AlertHub/internal/domain/models"

// VWAP computes the volume-weighted average of each candle's typical price
// (high+low+close)/3. Candles with zero or missing volume contribute nothing.
// Missing price fields count as zero for the typical price. Returns 0 when
// the cumulative volume is zero; callers treat 0 as "undefined", never as a
// legitimate price.
func VWAP(candles []models.Candle) float64 {
	var sumPV, sumV float64
	for _, c := range candles {
		if c.Volume == 0 {
			continue
		}
		typical := (deref(c.HighPrice) + deref(c.LowPrice) + deref(c.ClosePrice)) / 3
		sumPV += typical * c.Volume
		sumV += c.Volume
	}
	if sumV == 0 {
		return 0
	}
	return sumPV / sumV
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
