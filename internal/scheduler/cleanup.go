// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// BatchPruner removes completed import batches older than a cutoff.
type BatchPruner interface {
	DeleteCompletedBefore(cutoff time.Time) (int64, error)
}

// CleanupConfig controls the batch retention job.
type CleanupConfig struct {
	Enabled   bool
	Schedule  string        // cron format, e.g. "0 3 * * *" = daily at 03:00
	Retention time.Duration // how long completed batches are kept
}

// BatchCleanupScheduler periodically prunes completed import batches so
// old uploads and their row data don't accumulate forever.
type BatchCleanupScheduler struct {
	pruner BatchPruner
	config CleanupConfig

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewBatchCleanupScheduler creates a new scheduler instance.
func NewBatchCleanupScheduler(pruner BatchPruner, config CleanupConfig) *BatchCleanupScheduler {
	return &BatchCleanupScheduler{
		pruner: pruner,
		config: config,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *BatchCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Batch cleanup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Batch cleanup scheduler: started with schedule '%s', retention %s",
		s.config.Schedule, s.config.Retention)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running cleanup to
// complete.
func (s *BatchCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false

	log.Printf("Batch cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup pass.
func (s *BatchCleanupScheduler) RunNow() {
	s.runCleanup()
}

func (s *BatchCleanupScheduler) runCleanup() {
	cutoff := time.Now().Add(-s.config.Retention)
	removed, err := s.pruner.DeleteCompletedBefore(cutoff)
	if err != nil {
		log.Printf("Batch cleanup: failed to prune batches: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Batch cleanup: removed %d completed batches older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
