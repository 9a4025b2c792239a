package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/bookmoth/bookmoth/internal/catalog"
	"github.com/bookmoth/bookmoth/internal/entities"
	"github.com/bookmoth/bookmoth/internal/federation"
)

// Reconciler applies one resolved record's side effects to the owner's
// library state: shelving, reading history, then review, each idempotent
// where the data model defines a natural key.
type Reconciler struct {
	batches     BatchStore
	editions    CatalogStore
	library     LibraryStore
	reviews     ReviewStore
	broadcaster federation.Broadcaster
}

// NewReconciler creates a new reconciler.
func NewReconciler(batches BatchStore, editions CatalogStore, library LibraryStore, reviews ReviewStore, broadcaster federation.Broadcaster) *Reconciler {
	return &Reconciler{
		batches:     batches,
		editions:    editions,
		library:     library,
		reviews:     reviews,
		broadcaster: broadcaster,
	}
}

// Reconcile applies the record's side effects against the owner's
// existing state. Ordering: normalize the entity to a concrete edition,
// shelve, record reading sessions in list order, then review. A side
// effect failing propagates; the runner records it on the record.
//
// Reviews carry no natural key and are not deduplicated: reconciling the
// same record twice creates two reviews. Shelving and reading history
// ride atomic check-and-inserts and stay single.
func (rc *Reconciler) Reconcile(ctx context.Context, owner *entities.User, record *entities.ImportRecord, entity catalog.Entity, includeReviews bool, privacy entities.Privacy) error {
	edition, err := rc.concreteEdition(entity)
	if err != nil {
		return &ReconciliationError{Op: "normalize", Err: err}
	}
	if edition == nil {
		// Abstract work with no shelvable edition; nothing to apply.
		return nil
	}

	if record.EditionID == nil || *record.EditionID != edition.ID {
		if err := rc.batches.SetRecordEdition(record.ID, edition.ID); err != nil {
			return &ReconciliationError{Op: "persist edition", Err: err}
		}
		record.EditionID = &edition.ID
	}

	if record.Shelf != "" {
		if err := rc.shelve(ctx, owner, record.Shelf, edition, privacy); err != nil {
			return err
		}
	}

	for _, read := range record.Reads {
		readThrough := &entities.ReadThrough{
			UserID:     owner.ID,
			EditionID:  edition.ID,
			StartDate:  read.StartDate,
			FinishDate: read.FinishDate,
			Progress:   read.Progress,
		}
		if _, err := rc.library.AddReadThrough(readThrough); err != nil {
			return &ReconciliationError{Op: "reading history", Err: err}
		}
	}

	if includeReviews && (record.Rating > 0 || record.ReviewText != "") {
		if err := rc.review(ctx, owner, record, edition, privacy); err != nil {
			return err
		}
	}

	return nil
}

// concreteEdition normalizes a resolved entity to a shelvable edition. A
// work substitutes its default edition; a work with no editions at all
// yields nil.
func (rc *Reconciler) concreteEdition(entity catalog.Entity) (*entities.Edition, error) {
	if edition, ok := entity.Edition(); ok {
		return edition, nil
	}
	if work, ok := entity.Work(); ok {
		return rc.editions.DefaultEdition(work)
	}
	return nil, nil
}

func (rc *Reconciler) shelve(ctx context.Context, owner *entities.User, identifier string, edition *entities.Edition, privacy entities.Privacy) error {
	// Already shelved somewhere means nothing to do, even if the named
	// shelf doesn't exist.
	shelved, err := rc.library.HasShelving(owner.ID, edition.ID)
	if err != nil {
		return &ReconciliationError{Op: "shelve", Err: err}
	}
	if shelved {
		return nil
	}

	shelf, err := rc.library.GetShelf(owner.ID, identifier)
	if err != nil {
		return &ReconciliationError{Op: fmt.Sprintf("shelf %q", identifier), Err: err}
	}

	shelfBook, created, err := rc.library.ShelveEdition(owner.ID, shelf.ID, edition.ID)
	if err != nil {
		return &ReconciliationError{Op: "shelve", Err: err}
	}
	if !created {
		// Already shelved somewhere by this owner; leave it be.
		return nil
	}

	activity := federation.AddActivity(owner, shelfBook)
	if err := rc.broadcaster.Broadcast(ctx, owner, activity, privacy); err != nil {
		log.Printf("[FEDERATION] Failed to broadcast shelving of edition %d for user %d: %v", edition.ID, owner.ID, err)
	}
	return nil
}

func (rc *Reconciler) review(ctx context.Context, owner *entities.User, record *entities.ImportRecord, edition *entities.Edition, privacy entities.Privacy) error {
	name := ""
	if record.ReviewText != "" {
		name = fmt.Sprintf("Review of '%s' on Goodreads", edition.Title)
	}

	// The true authored date is unknown; the record's dates are the best
	// guess and "now" would be wrong.
	published := record.DateRead
	if published == nil {
		published = record.DateAdded
	}

	review := &entities.Review{
		UserID:        owner.ID,
		EditionID:     edition.ID,
		Name:          name,
		Content:       record.ReviewText,
		Rating:        record.Rating,
		PublishedDate: published,
		Privacy:       privacy,
	}
	if err := rc.reviews.CreateReview(review); err != nil {
		return &ReconciliationError{Op: "review", Err: err}
	}

	activity := federation.CreateActivity(owner, review)
	if err := rc.broadcaster.Broadcast(ctx, owner, activity, privacy); err != nil {
		log.Printf("[FEDERATION] Failed to broadcast review %d for user %d: %v", review.ID, owner.ID, err)
	}
	return nil
}
