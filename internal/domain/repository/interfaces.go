package repository

import (
	"context"
	"time"

	"AlertHub/internal/domain/models"
)

// AlertStore manages alert records across the six (kind, status) partitions.
// Implementations must never let a record be observable in two partitions at
// once: MoveAlert is a single atomic relocation.
type AlertStore interface {
	// GetAlerts returns alerts from one partition. With activeOnly set,
	// records whose isActive flag is false are filtered out.
	GetAlerts(ctx context.Context, kind Kind, status Status, activeOnly bool) ([]models.Alert, error)

	// AddAlert inserts one alert. A duplicate id within the partition is
	// non-fatal: the record is left untouched and (false, nil) is returned.
	AddAlert(ctx context.Context, kind Kind, status Status, alert models.Alert) (bool, error)

	// AddAlerts inserts a batch, skipping duplicate ids.
	AddAlerts(ctx context.Context, kind Kind, status Status, alerts []models.Alert) error

	RemoveAlert(ctx context.Context, kind Kind, status Status, id string) (bool, error)
	RemoveAlerts(ctx context.Context, kind Kind, status Status, ids []string) (int, error)
	RemoveAll(ctx context.Context, kind Kind, status Status) (int, error)

	// MoveAlert atomically relocates one record between partitions.
	// Returns false if the record does not exist in the source partition.
	MoveAlert(ctx context.Context, kind Kind, from, to Status, id string) (bool, error)

	// PurgeTriggeredBefore removes triggered records activated before cutoff.
	PurgeTriggeredBefore(ctx context.Context, kind Kind, cutoff time.Time) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// Notifier delivers the combined triggered-alerts report. Best-effort:
// callers log the returned error and never retry or propagate it.
type Notifier interface {
	SendCombinedReport(ctx context.Context, lineAlerts, vwapAlerts []models.Alert) error
}

// TriggerLog appends trigger events to an analytical history store.
type TriggerLog interface {
	Append(ctx context.Context, kind Kind, alerts []models.Alert) error
}

// TriggerPublisher emits trigger events for downstream consumers.
type TriggerPublisher interface {
	PublishTriggers(ctx context.Context, kind Kind, alerts []models.Alert) error
	Close() error
}

// Metrics records operational counters and gauges.
type Metrics interface {
	RecordTriggered(kind string, n int)
	SetActiveAlerts(kind string, n int)
	RecordJobRun(job, status string, seconds float64)
	RecordError(kind string)
	RecordNotification()
}
