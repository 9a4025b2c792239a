// Package catalog defines the canonical-catalog surface the import
// pipeline depends on: the Work-or-Edition entity variant and the
// external resolver contract that maps raw import rows to entities.
package catalog

import (
	"context"
	"fmt"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// Entity is a tagged variant holding exactly one of a Work or an Edition.
// The zero value is empty and matches nothing.
type Entity struct {
	work    *entities.Work
	edition *entities.Edition
}

// WorkEntity wraps an abstract work.
func WorkEntity(w *entities.Work) Entity {
	return Entity{work: w}
}

// EditionEntity wraps a concrete edition.
func EditionEntity(e *entities.Edition) Entity {
	return Entity{edition: e}
}

// Edition returns the concrete edition, if this entity is one.
func (e Entity) Edition() (*entities.Edition, bool) {
	return e.edition, e.edition != nil
}

// Work returns the abstract work, if this entity is one.
func (e Entity) Work() (*entities.Work, bool) {
	return e.work, e.work != nil
}

// IsZero reports whether the entity holds neither a work nor an edition.
func (e Entity) IsZero() bool {
	return e.work == nil && e.edition == nil
}

// Resolver maps one raw import row to a catalog entity. A nil entity with
// a nil error means no match was found; implementations may hit the
// network or local storage and should honor ctx cancellation.
type Resolver interface {
	Resolve(ctx context.Context, data entities.FieldMap) (*Entity, error)
}

// ResolutionError wraps a failure while looking up a row's catalog entry.
type ResolutionError struct {
	Identifier string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Identifier, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
