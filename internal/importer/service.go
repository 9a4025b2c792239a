// Package importer implements the bulk-import pipeline: batch creation
// and validation, asynchronous execution over an injected scheduler, and
// idempotent reconciliation of each resolved row against the owner's
// library state.
package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Service handles batch creation, retry batches and scheduling.
type Service struct {
	batches   BatchStore
	parser    RowParser
	scheduler Scheduler
}

// NewService creates a new import service.
func NewService(batches BatchStore, parser RowParser, scheduler Scheduler) *Service {
	return &Service{
		batches:   batches,
		parser:    parser,
		scheduler: scheduler,
	}
}

// CreateBatch validates the uploaded rows and persists one batch with one
// record per row, all-or-nothing. The first row missing a required field
// rejects the whole upload with a ValidationError and nothing is
// persisted.
func (s *Service) CreateBatch(owner *entities.User, rows []entities.FieldMap, includeReviews bool, privacy entities.Privacy) (*entities.ImportBatch, error) {
	records := make([]entities.ImportRecord, 0, len(rows))
	for index, row := range rows {
		for _, field := range RequiredFields {
			if row[field] == "" {
				return nil, &ValidationError{Index: index, Field: field}
			}
		}
		records = append(records, s.buildRecord(index, row))
	}

	batch := &entities.ImportBatch{
		UserID:         owner.ID,
		IncludeReviews: includeReviews,
		Privacy:        privacy,
	}
	if err := s.batches.CreateBatch(batch, records); err != nil {
		return nil, fmt.Errorf("failed to persist batch: %w", err)
	}

	log.Printf("[IMPORT] Created batch %d with %d records for user %d", batch.ID, len(records), owner.ID)
	return batch, nil
}

// CreateRetryBatch builds a new batch from the failed records of a prior
// one. Only index and data carry forward; resolution state is reset so
// every row resolves again. Job configuration is copied from the
// original.
func (s *Service) CreateRetryBatch(owner *entities.User, original *entities.ImportBatch, failed []entities.ImportRecord) (*entities.ImportBatch, error) {
	records := make([]entities.ImportRecord, 0, len(failed))
	for _, record := range failed {
		records = append(records, s.buildRecord(record.Index, record.Data))
	}

	batch := &entities.ImportBatch{
		UserID:         owner.ID,
		IncludeReviews: original.IncludeReviews,
		Privacy:        original.Privacy,
		RetryOfID:      &original.ID,
	}
	if err := s.batches.CreateBatch(batch, records); err != nil {
		return nil, fmt.Errorf("failed to persist retry batch: %w", err)
	}

	log.Printf("[IMPORT] Created retry batch %d (of batch %d) with %d records", batch.ID, original.ID, len(records))
	return batch, nil
}

// Start hands the batch to the scheduler and records the execution
// handle. It returns as soon as scheduling is acknowledged; the batch
// runs off this call path.
func (s *Service) Start(ctx context.Context, batch *entities.ImportBatch) error {
	taskRef, err := s.scheduler.Schedule(ctx, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to schedule batch %d: %w", batch.ID, err)
	}
	if err := s.batches.SetTaskRef(batch.ID, taskRef); err != nil {
		return fmt.Errorf("failed to record task ref for batch %d: %w", batch.ID, err)
	}
	batch.TaskRef = taskRef

	log.Printf("[IMPORT] Scheduled batch %d as task %s", batch.ID, taskRef)
	return nil
}

// FailedRecords lists the records of a batch that ended the execution
// pass with a fail reason, for building retry batches.
func (s *Service) FailedRecords(batchID uint) ([]entities.ImportRecord, error) {
	return s.batches.FailedRecords(batchID)
}

func (s *Service) buildRecord(index int, data entities.FieldMap) entities.ImportRecord {
	parsed := s.parser.Parse(data)
	return entities.ImportRecord{
		Index:      index,
		Data:       data,
		Shelf:      parsed.Shelf,
		Reads:      parsed.Reads,
		Rating:     parsed.Rating,
		ReviewText: parsed.ReviewText,
		DateRead:   parsed.DateRead,
		DateAdded:  parsed.DateAdded,
	}
}
