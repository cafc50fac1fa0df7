package scheduler

import (
	"context"
	"fmt"
	"time"

	domainrepo "AlertHub/internal/domain/repository"
	"AlertHub/internal/usecase"
	applogger "AlertHub/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron wiring: the hourly alert check and the daily
// cleanup of old triggered records. Overlap protection comes from cron's
// run discipline; jobs themselves are run-to-completion passes.
type Scheduler struct {
	cron      *cron.Cron
	marketJob *usecase.MarketJob
	cleanup   *usecase.CleanupJob
	metrics   domainrepo.Metrics
	logger    *applogger.Logger
	timeframe string
}

// New creates a scheduler. metrics may be nil.
func New(marketJob *usecase.MarketJob, cleanup *usecase.CleanupJob, metrics domainrepo.Metrics, timeframe string, logger *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		marketJob: marketJob,
		cleanup:   cleanup,
		metrics:   metrics,
		logger:    logger,
		timeframe: timeframe,
	}
}

// Register adds both jobs using standard 5-field cron expressions.
func (s *Scheduler) Register(checkCron, cleanupCron string) error {
	if _, err := s.cron.AddFunc(checkCron, s.runCheck); err != nil {
		return fmt.Errorf("register check job: %w", err)
	}
	if _, err := s.cron.AddFunc(cleanupCron, s.runCleanup); err != nil {
		return fmt.Errorf("register cleanup job: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunCheckNow executes the market job immediately.
func (s *Scheduler) RunCheckNow() {
	s.runCheck()
}

func (s *Scheduler) runCheck() {
	start := time.Now()
	result := s.marketJob.Run(context.Background(), s.timeframe)

	status := "ok"
	if !result.Success {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordJobRun("check", status, time.Since(start).Seconds())
	}
	if len(result.Errors) > 0 {
		s.logger.Warn("check job finished with errors",
			applogger.Strings("errors", result.Errors))
	}
}

func (s *Scheduler) runCleanup() {
	start := time.Now()
	_, err := s.cleanup.Run(context.Background())

	status := "ok"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordJobRun("cleanup", status, time.Since(start).Seconds())
	}
}
