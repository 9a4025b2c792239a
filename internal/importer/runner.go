package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/bookmoth/bookmoth/internal/catalog"
	"github.com/bookmoth/bookmoth/internal/entities"
)

// Runner executes one batch: resolve each record in row order, reconcile
// the resolved ones, isolate per-record failure, and finalize.
type Runner struct {
	batches    BatchStore
	users      UserStore
	resolver   catalog.Resolver
	reconciler *Reconciler
	notifier   Notifier
}

// NewRunner creates a new batch runner.
func NewRunner(batches BatchStore, users UserStore, resolver catalog.Resolver, reconciler *Reconciler, notifier Notifier) *Runner {
	return &Runner{
		batches:    batches,
		users:      users,
		resolver:   resolver,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

// Execute runs the single execution pass over a batch. Records are
// processed strictly in index order; one record's failure is recorded on
// the record and never aborts the batch. Finalization (completion notice
// plus the complete flag) runs on every exit path out of the loop; a
// persistence failure there is the only error Execute returns.
func (r *Runner) Execute(ctx context.Context, batchID uint) (err error) {
	batch, loadErr := r.batches.GetBatch(batchID)
	if loadErr != nil {
		return fmt.Errorf("failed to load batch %d: %w", batchID, loadErr)
	}
	owner, loadErr := r.users.GetUserByID(batch.UserID)
	if loadErr != nil {
		return fmt.Errorf("failed to load owner of batch %d: %w", batchID, loadErr)
	}
	records, loadErr := r.batches.GetRecords(batchID)
	if loadErr != nil {
		return fmt.Errorf("failed to load records of batch %d: %w", batchID, loadErr)
	}

	defer func() {
		if nerr := r.notifier.Notify(ctx, owner.ID, entities.NotificationImport, batch.ID); nerr != nil {
			log.Printf("[IMPORT] Failed to notify user %d about batch %d: %v", owner.ID, batch.ID, nerr)
		}
		if merr := r.batches.MarkComplete(batch.ID); merr != nil {
			err = &FinalizationError{BatchID: batch.ID, Err: merr}
			return
		}
		log.Printf("[IMPORT] Batch %d complete (%d records)", batch.ID, len(records))
	}()

	for i := range records {
		r.processRecord(ctx, batch, owner, &records[i])
	}

	return nil
}

// processRecord resolves and reconciles one record. Any failure,
// including a panic, is recorded as the record's fail reason and the
// batch moves on.
func (r *Runner) processRecord(ctx context.Context, batch *entities.ImportBatch, owner *entities.User, record *entities.ImportRecord) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[IMPORT] Panic processing record %d of batch %d: %v", record.Index, batch.ID, p)
			r.failRecord(record, FailReasonLoad)
		}
	}()

	entity, err := r.resolver.Resolve(ctx, record.Data)
	if err != nil {
		log.Printf("[IMPORT] Failed to resolve record %d of batch %d: %v", record.Index, batch.ID, err)
		r.failRecord(record, FailReasonLoad)
		return
	}
	if entity == nil || entity.IsZero() {
		r.failRecord(record, FailReasonNoMatch)
		return
	}

	if err := r.reconciler.Reconcile(ctx, owner, record, *entity, batch.IncludeReviews, batch.Privacy); err != nil {
		log.Printf("[IMPORT] Failed to reconcile record %d of batch %d: %v", record.Index, batch.ID, err)
		r.failRecord(record, FailReasonLoad)
	}
}

func (r *Runner) failRecord(record *entities.ImportRecord, reason string) {
	record.FailReason = reason
	if err := r.batches.SetRecordFailure(record.ID, reason); err != nil {
		log.Printf("[IMPORT] Failed to persist fail reason on record %d: %v", record.ID, err)
	}
}
