package entities

import (
	"time"

	"gorm.io/gorm"
)

// Privacy controls the federation audience of a broadcast activity.
type Privacy string

const (
	PrivacyPublic    Privacy = "public"
	PrivacyUnlisted  Privacy = "unlisted"
	PrivacyFollowers Privacy = "followers"
	PrivacyPrivate   Privacy = "private"
)

// Valid reports whether p is one of the defined privacy levels.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyFollowers, PrivacyPrivate:
		return true
	}
	return false
}

// Default shelf identifiers seeded for every user.
const (
	ShelfToRead  = "to-read"
	ShelfReading = "reading"
	ShelfRead    = "read"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:255" json:"email"`
	RemoteID  string         `gorm:"size:512" json:"remote_id,omitempty"` // federation actor IRI
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Shelf is a user's named collection of editions.
type Shelf struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_shelf_user_identifier,unique" json:"user_id"`
	Identifier string    `gorm:"index:idx_shelf_user_identifier,unique;size:100" json:"identifier"`
	Name       string    `gorm:"size:100" json:"name"`
	Editable   bool      `gorm:"default:true" json:"editable"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShelfBook places one edition on one of its owner's shelves. The unique
// index on (edition_id, user_id) means a user can hold an edition on at
// most one shelf; inserts against an existing pair are no-ops, which is
// what makes import shelving idempotent.
type ShelfBook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ShelfID   uint      `gorm:"index" json:"shelf_id"`
	EditionID uint      `gorm:"index:idx_shelfbook_edition_user,unique" json:"edition_id"`
	UserID    uint      `gorm:"index:idx_shelfbook_edition_user,unique" json:"user_id"`
	Shelf     Shelf     `gorm:"foreignKey:ShelfID" json:"shelf,omitempty"`
	Edition   Edition   `gorm:"foreignKey:EditionID" json:"edition,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadThrough records one reading session of an edition. Sessions are
// deduplicated by exact (user, edition, start_date, finish_date) match;
// two sessions with the same dates are treated as the same session even
// if progress differs.
type ReadThrough struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index:idx_readthrough_natural,unique" json:"user_id"`
	EditionID  uint       `gorm:"index:idx_readthrough_natural,unique" json:"edition_id"`
	StartDate  *time.Time `gorm:"index:idx_readthrough_natural,unique" json:"start_date,omitempty"`
	FinishDate *time.Time `gorm:"index:idx_readthrough_natural,unique" json:"finish_date,omitempty"`
	Progress   int        `json:"progress,omitempty"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Edition    Edition    `gorm:"foreignKey:EditionID" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Review is a user's statement about an edition. Reviews carry no
// uniqueness constraint: re-importing the same rows creates duplicate
// reviews, which is accepted behavior.
type Review struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index" json:"user_id"`
	EditionID     uint       `gorm:"index" json:"edition_id"`
	Name          string     `gorm:"size:512" json:"name"`
	Content       string     `gorm:"type:text" json:"content,omitempty"`
	Rating        int        `json:"rating,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Privacy       Privacy    `gorm:"size:20;default:'public'" json:"privacy"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	Edition       Edition    `gorm:"foreignKey:EditionID" json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NotificationKind distinguishes user-visible notices.
type NotificationKind string

const (
	NotificationImport NotificationKind = "IMPORT"
)

type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        uint             `gorm:"index" json:"user_id"`
	Kind          NotificationKind `gorm:"size:20" json:"kind"`
	ImportBatchID *uint            `gorm:"index" json:"import_batch_id,omitempty"`
	Read          bool             `gorm:"default:false" json:"read"`
	User          User             `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
}
