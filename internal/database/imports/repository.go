// Package imports provides database operations for import batches and
// their records.
//
// # Interface Implementation
//
//	var _ importer.BatchStore = (*Repository)(nil)
//
// # Usage
//
//	repo := imports.NewRepository(db)
//	batch, err := repo.GetBatch(42)
package imports

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Repository handles all import batch and record database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new imports repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBatch persists a batch and all of its records in one transaction.
// Either the whole batch lands or nothing does.
func (r *Repository) CreateBatch(batch *entities.ImportBatch, records []entities.ImportRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		for i := range records {
			records[i].BatchID = batch.ID
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("failed to create record %d: %w", records[i].Index, err)
			}
		}
		return nil
	})
}

// GetBatch retrieves a batch by ID without its records.
func (r *Repository) GetBatch(id uint) (*entities.ImportBatch, error) {
	var batch entities.ImportBatch
	err := r.db.First(&batch, id).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetRecords retrieves a batch's records in original row order.
func (r *Repository) GetRecords(batchID uint) ([]entities.ImportRecord, error) {
	var records []entities.ImportRecord
	err := r.db.Where("batch_id = ?", batchID).Order("idx ASC").Find(&records).Error
	return records, err
}

// FailedRecords retrieves the records of a batch that ended the execution
// pass with a fail reason, in row order.
func (r *Repository) FailedRecords(batchID uint) ([]entities.ImportRecord, error) {
	var records []entities.ImportRecord
	err := r.db.Where("batch_id = ? AND fail_reason <> ''", batchID).Order("idx ASC").Find(&records).Error
	return records, err
}

// SetTaskRef records the scheduled execution handle on the batch.
func (r *Repository) SetTaskRef(batchID uint, taskRef string) error {
	return r.db.Model(&entities.ImportBatch{}).Where("id = ?", batchID).
		Update("task_ref", taskRef).Error
}

// MarkComplete flips the batch's completion flag. The flag only ever
// moves false to true; a batch already complete is left untouched.
func (r *Repository) MarkComplete(batchID uint) error {
	return r.db.Model(&entities.ImportBatch{}).
		Where("id = ? AND complete = ?", batchID, false).
		Update("complete", true).Error
}

// SetRecordFailure stamps a record's fail reason.
func (r *Repository) SetRecordFailure(recordID uint, reason string) error {
	return r.db.Model(&entities.ImportRecord{}).Where("id = ?", recordID).
		Update("fail_reason", reason).Error
}

// SetRecordEdition stamps the resolved edition on a record.
func (r *Repository) SetRecordEdition(recordID uint, editionID uint) error {
	return r.db.Model(&entities.ImportRecord{}).Where("id = ?", recordID).
		Update("edition_id", editionID).Error
}

// DeleteCompletedBefore removes completed batches created before the
// cutoff, records included. Returns the number of batches removed.
func (r *Repository) DeleteCompletedBefore(cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&entities.ImportBatch{}).
			Where("complete = ? AND created_at < ?", true, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("batch_id IN ?", ids).Delete(&entities.ImportRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&entities.ImportBatch{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}
