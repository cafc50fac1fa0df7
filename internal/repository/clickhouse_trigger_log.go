package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	pkgch "AlertHub/pkg/clickhouse"
	applogger "AlertHub/pkg/logger"
)

// triggerSchema holds the idempotent DDL for the trigger history table.
var triggerSchema = []string{
	`CREATE TABLE IF NOT EXISTS triggered_alerts (
        id String,
        kind LowCardinality(String),
        symbol String,
        alert_name String,
        price Float64,
        anchor_price Float64,
        activated_at DateTime64(3),
        created_at DateTime DEFAULT now()
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(activated_at)
    ORDER BY (symbol, activated_at)`,
}

// CHTriggerLog implements TriggerLog backed by ClickHouse. The table is an
// append-only history of every fired alert, kept for analytics.
type CHTriggerLog struct {
	db *sql.DB
	l  *applogger.Logger
}

// NewCHTriggerLog creates the log and ensures the schema exists.
func NewCHTriggerLog(ctx context.Context, ch *pkgch.Client, l *applogger.Logger) (*CHTriggerLog, error) {
	if err := ch.InitSchema(ctx, triggerSchema); err != nil {
		return nil, fmt.Errorf("trigger log schema: %w", err)
	}
	return &CHTriggerLog{db: ch.DB(), l: l}, nil
}

// Append writes one row per triggered alert in a single multi-row insert.
func (s *CHTriggerLog) Append(ctx context.Context, kind domainrepo.Kind, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(`INSERT INTO triggered_alerts
        (id, kind, symbol, alert_name, price, anchor_price, activated_at) VALUES `)
	args := make([]interface{}, 0, len(alerts)*7)
	for i, a := range alerts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			a.ID, string(kind), a.Symbol, a.Name,
			a.Price, a.AnchorPrice,
			time.UnixMilli(a.ActivationTime).UTC(),
		)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse trigger append error",
				applogger.String("kind", string(kind)),
				applogger.Int("rows", len(alerts)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("append triggers: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse trigger append ok",
			applogger.String("kind", string(kind)),
			applogger.Int("rows", len(alerts)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}
