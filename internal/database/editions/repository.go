// Package editions provides database operations for catalog works and
// editions.
//
// # Interface Implementation
//
//	var _ importer.CatalogStore = (*Repository)(nil)
package editions

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Repository handles all work and edition database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new editions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetEdition retrieves an edition by ID.
func (r *Repository) GetEdition(id uint) (*entities.Edition, error) {
	var edition entities.Edition
	err := r.db.First(&edition, id).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// GetEditionByISBN13 retrieves an edition by its ISBN-13.
func (r *Repository) GetEditionByISBN13(isbn string) (*entities.Edition, error) {
	var edition entities.Edition
	err := r.db.Where("isbn13 = ?", isbn).First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// GetEditionByTitleAuthor retrieves an edition by exact title and author.
func (r *Repository) GetEditionByTitleAuthor(title, author string) (*entities.Edition, error) {
	var edition entities.Edition
	err := r.db.Where("title = ? AND author = ?", title, author).First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// DefaultEdition resolves a work's designated default edition, falling
// back to the work's first edition. Returns nil without error when the
// work has no concrete edition at all.
func (r *Repository) DefaultEdition(work *entities.Work) (*entities.Edition, error) {
	if work.DefaultEditionID != nil {
		edition, err := r.GetEdition(*work.DefaultEditionID)
		if err == nil {
			return edition, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var edition entities.Edition
	err := r.db.Where("work_id = ?", work.ID).Order("id ASC").First(&edition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// CreateWork persists a work.
func (r *Repository) CreateWork(work *entities.Work) error {
	return r.db.Create(work).Error
}

// CreateEdition persists an edition.
func (r *Repository) CreateEdition(edition *entities.Edition) error {
	return r.db.Create(edition).Error
}
