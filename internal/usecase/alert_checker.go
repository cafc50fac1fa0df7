package usecase

import (
	"context"

	"AlertHub/internal/domain/models"
	domainrepo "AlertHub/internal/domain/repository"
	"AlertHub/internal/services/alerting"
	applogger "AlertHub/pkg/logger"
)

// StageResult is the outcome of one alert kind's processing stage.
type StageResult struct {
	Kind      domainrepo.Kind
	Checked   int
	Triggered int
	Err       error
}

// CheckSummary aggregates one full evaluation pass.
type CheckSummary struct {
	Line      StageResult
	Vwap      StageResult
	NotifyErr error
}

// TriggeredTotal returns how many alerts fired across both kinds.
func (s CheckSummary) TriggeredTotal() int {
	return s.Line.Triggered + s.Vwap.Triggered
}

// AlertChecker runs one evaluation pass: index the snapshot, evaluate both
// alert kinds against it, persist the triggered copies and send one
// combined report. The three stages are fault-isolated; a failure in one
// never prevents the others from running.
type AlertChecker struct {
	store     domainrepo.AlertStore
	notifier  domainrepo.Notifier
	log       domainrepo.TriggerLog
	publisher domainrepo.TriggerPublisher
	metrics   domainrepo.Metrics
	evaluator *alerting.Evaluator
	logger    *applogger.Logger
}

// NewAlertChecker creates the orchestrator. The trigger log, publisher and
// metrics are optional collaborators and may be nil.
func NewAlertChecker(
	store domainrepo.AlertStore,
	notifier domainrepo.Notifier,
	log domainrepo.TriggerLog,
	publisher domainrepo.TriggerPublisher,
	metrics domainrepo.Metrics,
	evaluator *alerting.Evaluator,
	logger *applogger.Logger,
) *AlertChecker {
	return &AlertChecker{
		store:     store,
		notifier:  notifier,
		log:       log,
		publisher: publisher,
		metrics:   metrics,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Check runs a full evaluation pass against one snapshot.
func (c *AlertChecker) Check(ctx context.Context, snapshot *models.Snapshot) CheckSummary {
	summary := CheckSummary{
		Line: StageResult{Kind: domainrepo.KindLine},
		Vwap: StageResult{Kind: domainrepo.KindVwap},
	}

	index := alerting.BuildIndex(snapshot)
	if len(index) == 0 {
		c.logger.Warn("snapshot is empty, alert check skipped",
			applogger.String("timeframe", snapshot.Timeframe))
		return summary
	}

	lineTriggered := c.runStage(ctx, index, domainrepo.KindLine, c.evaluator.CheckLineAlerts, &summary.Line)
	vwapTriggered := c.runStage(ctx, index, domainrepo.KindVwap, c.evaluator.CheckVwapAlerts, &summary.Vwap)

	if len(lineTriggered) > 0 || len(vwapTriggered) > 0 {
		if err := c.notifier.SendCombinedReport(ctx, lineTriggered, vwapTriggered); err != nil {
			summary.NotifyErr = err
			c.logger.Error("triggered alerts report failed", applogger.Error(err))
			if c.metrics != nil {
				c.metrics.RecordError("notify")
			}
		} else if c.metrics != nil {
			c.metrics.RecordNotification()
		}
	}

	return summary
}

type evaluateFunc func(index map[string][]models.Candle, alerts []models.Alert) []models.Alert

// runStage fetches, evaluates and persists one alert kind. Errors land in
// the stage result and are logged; they never propagate.
func (c *AlertChecker) runStage(
	ctx context.Context,
	index map[string][]models.Candle,
	kind domainrepo.Kind,
	evaluate evaluateFunc,
	result *StageResult,
) []models.Alert {
	alerts, err := c.store.GetAlerts(ctx, kind, domainrepo.StatusWorking, true)
	if err != nil {
		result.Err = err
		c.logger.Error("fetching working alerts failed",
			applogger.String("kind", string(kind)),
			applogger.Error(err),
		)
		if c.metrics != nil {
			c.metrics.RecordError("store")
		}
		return nil
	}
	result.Checked = len(alerts)
	if c.metrics != nil {
		c.metrics.SetActiveAlerts(string(kind), len(alerts))
	}
	if len(alerts) == 0 {
		return nil
	}

	triggered := evaluate(index, alerts)
	result.Triggered = len(triggered)
	if len(triggered) == 0 {
		return nil
	}

	for _, alert := range triggered {
		if _, err := c.store.AddAlert(ctx, kind, domainrepo.StatusTriggered, alert); err != nil {
			result.Err = err
			c.logger.Error("persisting triggered alert failed",
				applogger.String("kind", string(kind)),
				applogger.String("id", alert.ID),
				applogger.Error(err),
			)
			if c.metrics != nil {
				c.metrics.RecordError("store")
			}
		}
	}

	if c.metrics != nil {
		c.metrics.RecordTriggered(string(kind), len(triggered))
	}
	c.logger.Info("alerts triggered",
		applogger.String("kind", string(kind)),
		applogger.Int("checked", len(alerts)),
		applogger.Int("triggered", len(triggered)),
	)

	// history log and event stream are best-effort side channels
	if c.log != nil {
		if err := c.log.Append(ctx, kind, triggered); err != nil {
			c.logger.Error("trigger history append failed",
				applogger.String("kind", string(kind)),
				applogger.Error(err),
			)
		}
	}
	if c.publisher != nil {
		if err := c.publisher.PublishTriggers(ctx, kind, triggered); err != nil {
			c.logger.Error("trigger events publish failed",
				applogger.String("kind", string(kind)),
				applogger.Error(err),
			)
		}
	}

	return triggered
}
