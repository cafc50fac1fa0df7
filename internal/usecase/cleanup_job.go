package usecase

import (
	"context"
	"time"

	domainrepo "AlertHub/internal/domain/repository"
	applogger "AlertHub/pkg/logger"
)

// CleanupJob prunes old triggered records from both alert kinds.
// Triggered alerts are a rolling log, not a permanent archive.
type CleanupJob struct {
	store  domainrepo.AlertStore
	ttl    time.Duration
	logger *applogger.Logger
	now    func() time.Time
}

// NewCleanupJob creates the cleanup job. ttl is how long a triggered
// record is retained after activation.
func NewCleanupJob(store domainrepo.AlertStore, ttl time.Duration, logger *applogger.Logger) *CleanupJob {
	return &CleanupJob{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// Run removes expired triggered records, returning the total deleted.
func (j *CleanupJob) Run(ctx context.Context) (int, error) {
	start := j.now()
	cutoff := start.Add(-j.ttl)

	total := 0
	var firstErr error
	for _, kind := range domainrepo.Kinds() {
		n, err := j.store.PurgeTriggeredBefore(ctx, kind, cutoff)
		if err != nil {
			j.logger.Error("cleanup failed",
				applogger.String("kind", string(kind)),
				applogger.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += n
	}

	j.logger.Info("cleanup completed",
		applogger.Int("deleted", total),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return total, firstErr
}
