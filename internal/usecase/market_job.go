package usecase

import (
	"context"
	"fmt"
	"time"

	"AlertHub/internal/domain/models"
	"AlertHub/internal/service/coinlist"
	"AlertHub/internal/service/kline"
	applogger "AlertHub/pkg/logger"
)

// MarketJob is the hourly pipeline: fetch the coin universe, build a candle
// snapshot from the exchanges, then hand it to the alert checker.
type MarketJob struct {
	coins   *coinlist.Client
	fetcher *kline.Fetcher
	checker *AlertChecker
	logger  *applogger.Logger
}

// NewMarketJob wires the hourly pipeline.
func NewMarketJob(coins *coinlist.Client, fetcher *kline.Fetcher, checker *AlertChecker, logger *applogger.Logger) *MarketJob {
	return &MarketJob{coins: coins, fetcher: fetcher, checker: checker, logger: logger}
}

// Run executes one full pass and reports the outcome.
func (j *MarketJob) Run(ctx context.Context, timeframe string) models.JobResult {
	start := time.Now()
	result := models.JobResult{Timeframe: timeframe}

	coins, err := j.coins.FetchCoins(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("coin list: %v", err))
		result.ExecutionTimeMs = time.Since(start).Milliseconds()
		j.logger.Error("market job failed", applogger.Error(err))
		return result
	}
	result.TotalCoins = len(coins)
	j.logger.Info("market job started",
		applogger.String("timeframe", timeframe),
		applogger.Int("coins", len(coins)),
	)

	snapshot, failed := j.fetcher.FetchSnapshot(ctx, coins)
	result.SuccessfulCoins = snapshot.CoinsNumber
	result.FailedCoins = len(failed)
	if len(failed) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("kline fetch failed for %d coins", len(failed)))
	}

	if snapshot.CoinsNumber == 0 {
		result.Errors = append(result.Errors, "snapshot is empty, alert check skipped")
		result.ExecutionTimeMs = time.Since(start).Milliseconds()
		j.logger.Warn("market job produced no data", applogger.String("timeframe", timeframe))
		return result
	}

	summary := j.checker.Check(ctx, snapshot)
	if summary.Line.Err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("line stage: %v", summary.Line.Err))
	}
	if summary.Vwap.Err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("vwap stage: %v", summary.Vwap.Err))
	}
	if summary.NotifyErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("notify: %v", summary.NotifyErr))
	}

	result.Success = summary.Line.Err == nil && summary.Vwap.Err == nil
	result.ExecutionTimeMs = time.Since(start).Milliseconds()

	j.logger.Info("market job completed",
		applogger.String("timeframe", timeframe),
		applogger.Bool("success", result.Success),
		applogger.Int("checked_line", summary.Line.Checked),
		applogger.Int("checked_vwap", summary.Vwap.Checked),
		applogger.Int("triggered", summary.TriggeredTotal()),
		applogger.Int64("duration_ms", result.ExecutionTimeMs),
	)
	return result
}
