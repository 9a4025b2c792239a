// Package shelves provides database operations for shelving and reading
// history.
//
// Shelving and read-through creation are atomic check-and-inserts keyed
// by their natural keys, so concurrent re-runs of the same import cannot
// produce duplicate rows.
//
// # Interface Implementation
//
//	var _ importer.LibraryStore = (*Repository)(nil)
package shelves

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Repository handles all shelf, shelving and reading-history operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetShelf retrieves a user's shelf by identifier.
func (r *Repository) GetShelf(userID uint, identifier string) (*entities.Shelf, error) {
	var shelf entities.Shelf
	err := r.db.Where("user_id = ? AND identifier = ?", userID, identifier).First(&shelf).Error
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// CreateShelf creates a named shelf for a user.
func (r *Repository) CreateShelf(userID uint, identifier, name string) (*entities.Shelf, error) {
	shelf := &entities.Shelf{
		UserID:     userID,
		Identifier: identifier,
		Name:       name,
		Editable:   true,
	}
	if err := r.db.Create(shelf).Error; err != nil {
		return nil, err
	}
	return shelf, nil
}

// HasShelving reports whether the user holds the edition on any shelf.
func (r *Repository) HasShelving(userID, editionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.ShelfBook{}).
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Count(&count).Error
	return count > 0, err
}

// ShelveEdition places an edition on a user's shelf unless the user
// already holds the edition on any shelf. The insert rides the unique
// (edition_id, user_id) index with a do-nothing conflict clause, so the
// existence check and the insert are one atomic operation. Returns the
// created shelving and true, or nil and false when already shelved.
func (r *Repository) ShelveEdition(userID, shelfID, editionID uint) (*entities.ShelfBook, bool, error) {
	shelfBook := &entities.ShelfBook{
		ShelfID:   shelfID,
		EditionID: editionID,
		UserID:    userID,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "edition_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(shelfBook)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return shelfBook, true, nil
}

// AddReadThrough records a reading session unless one already exists for
// the same (user, edition, start date, finish date). The check and the
// insert run in one transaction; the unique index on the natural key
// backstops concurrent writers. The in-transaction check also covers
// sessions with null dates, which the unique index alone would treat as
// distinct. Returns true when a row was created.
func (r *Repository) AddReadThrough(read *entities.ReadThrough) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&entities.ReadThrough{}).
			Where("user_id = ? AND edition_id = ?", read.UserID, read.EditionID)
		query = whereNullable(query, "start_date", read.StartDate)
		query = whereNullable(query, "finish_date", read.FinishDate)

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "edition_id"},
				{Name: "start_date"}, {Name: "finish_date"},
			},
			DoNothing: true,
		}).Create(read)
		if result.Error != nil {
			return result.Error
		}
		created = result.RowsAffected > 0
		return nil
	})
	return created, err
}

func whereNullable(query *gorm.DB, column string, value *time.Time) *gorm.DB {
	if value == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", value)
}

// GetShelvings retrieves all of a user's shelvings for an edition.
func (r *Repository) GetShelvings(userID, editionID uint) ([]entities.ShelfBook, error) {
	var shelvings []entities.ShelfBook
	err := r.db.Preload("Shelf").
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Find(&shelvings).Error
	return shelvings, err
}

// GetReadThroughs retrieves a user's reading history for an edition.
func (r *Repository) GetReadThroughs(userID, editionID uint) ([]entities.ReadThrough, error) {
	var reads []entities.ReadThrough
	err := r.db.Where("user_id = ? AND edition_id = ?", userID, editionID).
		Order("start_date ASC").Find(&reads).Error
	return reads, err
}
