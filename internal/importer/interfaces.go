package importer

import (
	"context"
	"time"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Required fields of every import row. A row missing any of them fails
// the whole upload.
const (
	FieldISBN13 = "ISBN13"
	FieldTitle  = "Title"
	FieldAuthor = "Author"
)

// RequiredFields lists the field names every row must carry.
var RequiredFields = []string{FieldISBN13, FieldTitle, FieldAuthor}

// BatchStore persists import batches and records.
type BatchStore interface {
	CreateBatch(batch *entities.ImportBatch, records []entities.ImportRecord) error
	GetBatch(id uint) (*entities.ImportBatch, error)
	GetRecords(batchID uint) ([]entities.ImportRecord, error)
	FailedRecords(batchID uint) ([]entities.ImportRecord, error)
	SetTaskRef(batchID uint, taskRef string) error
	MarkComplete(batchID uint) error
	SetRecordFailure(recordID uint, reason string) error
	SetRecordEdition(recordID uint, editionID uint) error
}

// CatalogStore resolves catalog lookups the reconciler needs.
type CatalogStore interface {
	DefaultEdition(work *entities.Work) (*entities.Edition, error)
}

// LibraryStore applies shelving and reading-history side effects. Both
// creation methods are atomic check-and-inserts keyed by their natural
// keys.
type LibraryStore interface {
	GetShelf(userID uint, identifier string) (*entities.Shelf, error)
	HasShelving(userID, editionID uint) (bool, error)
	ShelveEdition(userID, shelfID, editionID uint) (*entities.ShelfBook, bool, error)
	AddReadThrough(read *entities.ReadThrough) (bool, error)
}

// ReviewStore persists reviews.
type ReviewStore interface {
	CreateReview(review *entities.Review) error
}

// UserStore loads batch owners.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
}

// Notifier records a user-visible completion notice.
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind entities.NotificationKind, batchID uint) error
}

// Scheduler hands a batch to an asynchronous execution facility and
// returns its execution handle. Schedule must not block on the batch
// running.
type Scheduler interface {
	Schedule(ctx context.Context, batchID uint) (string, error)
}

// ParsedRow holds the library-state attributes a parser derived from one
// raw row, consumed by the reconciler.
type ParsedRow struct {
	Shelf      string
	Reads      entities.ReadSlots
	Rating     int
	ReviewText string
	DateRead   *time.Time
	DateAdded  *time.Time
}

// RowParser derives library-state attributes from a raw row. Format
// adapters live outside this module; parsers are expected to be lenient
// and never fail on well-formed field maps.
type RowParser interface {
	Parse(data entities.FieldMap) ParsedRow
}
