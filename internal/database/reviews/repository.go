// Package reviews provides database operations for book reviews.
//
// Reviews carry no uniqueness constraint; creating the same review twice
// yields two rows.
package reviews

import (
	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview persists a review.
func (r *Repository) CreateReview(review *entities.Review) error {
	return r.db.Create(review).Error
}

// GetReviews retrieves a user's reviews for an edition, newest first.
func (r *Repository) GetReviews(userID, editionID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Where("user_id = ? AND edition_id = ?", userID, editionID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
