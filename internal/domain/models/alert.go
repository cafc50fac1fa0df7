package models

// Alert is a registered watch request. One struct covers both kinds: the
// anchor fields are only meaningful for VWAP alerts, the high/low capture
// only for triggered Line alerts. The JSON shape matches the wire format
// the frontend and the partitions store use.
type Alert struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"alertName"`
	Action       string   `json:"action"`
	Price        float64  `json:"price"`
	Description  string   `json:"description,omitempty"`
	Exchanges    []string `json:"exchanges"`
	Category     int      `json:"category,omitempty"`
	IsActive     bool     `json:"isActive"`
	CreationTime int64    `json:"creationTime,omitempty"`

	// Set on the triggered copy only.
	ActivationTime    int64  `json:"activationTime,omitempty"`
	ActivationTimeStr string `json:"activationTimeStr,omitempty"`

	// Line alerts: high/low of the candle that crossed the level.
	HighPrice *float64 `json:"highPrice,omitempty"`
	LowPrice  *float64 `json:"lowPrice,omitempty"`

	// VWAP alerts: accumulation window anchor and the computed VWAP.
	AnchorTime    int64   `json:"anchorTime,omitempty"`
	AnchorTimeStr string  `json:"anchorTimeStr,omitempty"`
	AnchorPrice   float64 `json:"anchorPrice,omitempty"`
}

// TriggerEvent is the message published for each triggered alert.
type TriggerEvent struct {
	Kind           string  `json:"kind"`
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"alertName"`
	Price          float64 `json:"price"`
	AnchorPrice    float64 `json:"anchorPrice,omitempty"`
	ActivationTime int64   `json:"activationTime"`
}
