package entities

import (
	"time"
)

// Work is an abstract grouping of Editions. A work cannot be shelved
// directly; shelving always targets one of its editions.
type Work struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"index;size:512" json:"title"`
	DefaultEditionID *uint     `gorm:"index" json:"default_edition_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Edition is a concrete published form of a book. Editions are the only
// catalog entities that can appear on shelves, in reading history, or in
// reviews.
type Edition struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	WorkID          *uint     `gorm:"index" json:"work_id,omitempty"`
	Title           string    `gorm:"index;size:512" json:"title"`
	Author          string    `gorm:"index;size:256" json:"author"`
	ISBN13          string    `gorm:"index;size:20" json:"isbn13,omitempty"`
	ISBN10          string    `gorm:"size:20" json:"isbn10,omitempty"`
	Publisher       string    `gorm:"size:256" json:"publisher,omitempty"`
	PublicationYear int       `json:"publication_year,omitempty"`
	ExternalID      string    `gorm:"index;size:256" json:"external_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
