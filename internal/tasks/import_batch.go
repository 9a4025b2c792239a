package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/bookmoth/bookmoth/internal/importer"
)

// ImportBatchTask executes one import batch's single execution pass.
type ImportBatchTask struct {
	BatchID uint `json:"batch_id"`
}

// Config returns the queue configuration for import batch tasks. One
// attempt only: the execution pass records per-record outcomes itself and
// re-running a completed batch would duplicate reviews.
func (t ImportBatchTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_batch",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBatchProcessor creates a processor function for ImportBatchTask.
func ImportBatchProcessor(runner *importer.Runner) backlite.QueueProcessor[ImportBatchTask] {
	return func(ctx context.Context, task ImportBatchTask) error {
		if runner == nil {
			return fmt.Errorf("import runner not configured")
		}
		if err := runner.Execute(ctx, task.BatchID); err != nil {
			return fmt.Errorf("import batch %d: %w", task.BatchID, err)
		}
		return nil
	}
}

// NewImportBatchQueue creates a backlite queue for import batch tasks.
func NewImportBatchQueue(runner *importer.Runner) backlite.Queue {
	return backlite.NewQueue(ImportBatchProcessor(runner))
}

// BatchScheduler enqueues import batches on the task queue.
//
//	var _ importer.Scheduler = (*BatchScheduler)(nil)
type BatchScheduler struct {
	client *Client
}

// NewBatchScheduler creates a scheduler backed by the task queue client.
func NewBatchScheduler(client *Client) *BatchScheduler {
	return &BatchScheduler{client: client}
}

// Schedule enqueues the batch and returns the task ID as its execution
// handle. Returns as soon as the task row is saved.
func (s *BatchScheduler) Schedule(_ context.Context, batchID uint) (string, error) {
	ids, err := s.client.Add(ImportBatchTask{BatchID: batchID}).Save()
	if err != nil {
		return "", fmt.Errorf("failed to enqueue batch %d: %w", batchID, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no task ID returned for batch %d", batchID)
	}
	return ids[0], nil
}
