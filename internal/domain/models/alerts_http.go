package models

// Requests for the alert CRUD endpoints. Defined in domain for consistency
// and reuse across handlers and tests.

// AlertRequest is the payload for creating one working alert. The id is
// optional; the handler generates a UUID when it is absent. The isActive
// flag is forced true on insert into the working partition.
type AlertRequest struct {
	ID          string   `json:"id"`
	Symbol      string   `json:"symbol" validate:"required"`
	Name        string   `json:"alertName" validate:"required"`
	Action      string   `json:"action" default:"cross"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description"`
	Exchanges   []string `json:"exchanges"`
	Category    int      `json:"category" validate:"gte=0"`

	// VWAP alerts carry the accumulation anchor plus its display string,
	// rendered by the client and echoed back in reports.
	AnchorTime    int64  `json:"anchorTime" validate:"gte=0"`
	AnchorTimeStr string `json:"anchorTimeStr"`
}

// ToAlert converts the request into a working alert record.
func (r *AlertRequest) ToAlert(creationTimeMs int64) Alert {
	return Alert{
		ID:           r.ID,
		Symbol:       r.Symbol,
		Name:         r.Name,
		Action:       r.Action,
		Price:        r.Price,
		Description:  r.Description,
		Exchanges:    r.Exchanges,
		Category:     r.Category,
		IsActive:     true,
		CreationTime: creationTimeMs,

		AnchorTime:    r.AnchorTime,
		AnchorTimeStr: r.AnchorTimeStr,
	}
}

// DeleteBatchRequest is the payload for batch deletion by id.
type DeleteBatchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}
