package alerting

import (
	"strconv"
	"time"

	"AlertHub/internal/domain/models"

	"github.com/google/uuid"
)

// reportZone is the fixed timezone used for human-readable timestamp
// renderings. Comparisons always use raw epoch milliseconds.
var reportZone = time.FixedZone("UTC+3", 3*60*60)

const timeLayout = "2006-01-02 15:04:05"

// Evaluator decides which registered alerts fired against a candle index.
// Evaluation is pure CPU work over immutable input; a fault in one alert
// never affects the others.
type Evaluator struct {
	quoteSuffix string
	now         func() time.Time
}

// NewEvaluator creates an evaluator. quoteSuffix is the deployment's base
// quote currency used for symbol resolution fallback.
func NewEvaluator(quoteSuffix string) *Evaluator {
	return &Evaluator{quoteSuffix: quoteSuffix, now: time.Now}
}

// CheckLineAlerts returns the triggered subset of alerts, each rewritten
// into a fresh triggered record carrying the crossing candle's high/low.
func (e *Evaluator) CheckLineAlerts(index map[string][]models.Candle, alerts []models.Alert) []models.Alert {
	triggered := make([]models.Alert, 0)
	for _, alert := range alerts {
		if out, ok := e.checkLine(index, alert); ok {
			triggered = append(triggered, out)
		}
	}
	return triggered
}

func (e *Evaluator) checkLine(index map[string][]models.Candle, alert models.Alert) (out models.Alert, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	candles, found := ResolveSeries(index, alert.Symbol, e.quoteSuffix)
	if !found {
		return models.Alert{}, false
	}

	last := candles[len(candles)-1]
	if last.OpenPrice == nil || last.ClosePrice == nil {
		return models.Alert{}, false
	}

	if !withinBody(alert.Price, *last.OpenPrice, *last.ClosePrice) {
		return models.Alert{}, false
	}

	out = alert
	e.stampTrigger(&out)
	out.HighPrice = clonePrice(last.HighPrice)
	out.LowPrice = clonePrice(last.LowPrice)
	return out, true
}

// CheckVwapAlerts returns the triggered subset of alerts. Each triggered
// record has price and anchorPrice overwritten with the window VWAP.
func (e *Evaluator) CheckVwapAlerts(index map[string][]models.Candle, alerts []models.Alert) []models.Alert {
	triggered := make([]models.Alert, 0)
	for _, alert := range alerts {
		if out, ok := e.checkVwap(index, alert); ok {
			triggered = append(triggered, out)
		}
	}
	return triggered
}

func (e *Evaluator) checkVwap(index map[string][]models.Candle, alert models.Alert) (out models.Alert, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if alert.AnchorTime == 0 {
		return models.Alert{}, false
	}

	candles, found := ResolveSeries(index, alert.Symbol, e.quoteSuffix)
	if !found {
		return models.Alert{}, false
	}

	anchorMs := NormalizeAnchorMs(alert.AnchorTime)

	// History must reach back to the anchor, otherwise the window VWAP
	// would be computed from a truncated accumulation.
	if candles[0].OpenTime > anchorMs {
		return models.Alert{}, false
	}

	last := candles[len(candles)-1]
	window := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if c.OpenTime >= anchorMs && c.OpenTime <= last.OpenTime {
			window = append(window, c)
		}
	}
	if len(window) == 0 {
		return models.Alert{}, false
	}

	vwap := VWAP(window)
	if vwap == 0 {
		return models.Alert{}, false
	}

	if last.OpenPrice == nil || last.ClosePrice == nil {
		return models.Alert{}, false
	}
	if !withinBody(vwap, *last.OpenPrice, *last.ClosePrice) {
		return models.Alert{}, false
	}

	out = alert
	e.stampTrigger(&out)
	out.Price = vwap
	out.AnchorPrice = vwap
	return out, true
}

// stampTrigger turns a working alert into a fresh triggered record.
func (e *Evaluator) stampTrigger(a *models.Alert) {
	now := e.now()
	a.ID = uuid.NewString()
	a.ActivationTime = now.UnixMilli()
	a.ActivationTimeStr = now.In(reportZone).Format(timeLayout)
}

// withinBody reports whether value lies inside the candle body interval
// [min(open,close), max(open,close)], boundaries inclusive.
func withinBody(value, open, close float64) bool {
	lo, hi := open, close
	if lo > hi {
		lo, hi = hi, lo
	}
	return value >= lo && value <= hi
}

// NormalizeAnchorMs converts an anchor timestamp to milliseconds. A value
// that renders as exactly 10 base-10 digits is treated as seconds. The
// digit-count heuristic misclassifies millisecond stamps before 2001 and
// after 2286; the API boundary should eventually carry an explicit unit.
func NormalizeAnchorMs(anchor int64) int64 {
	if len(strconv.FormatInt(anchor, 10)) == 10 {
		return anchor * 1000
	}
	return anchor
}

func clonePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
