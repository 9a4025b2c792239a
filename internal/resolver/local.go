// Package resolver provides a catalog.Resolver backed by the local
// edition store. Remote connectors and fuzzier matching heuristics plug
// in behind the same interface.
package resolver

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/catalog"
	"github.com/bookmoth/bookmoth/internal/entities"
)

// EditionFinder is the slice of the edition store the resolver needs.
type EditionFinder interface {
	GetEditionByISBN13(isbn string) (*entities.Edition, error)
	GetEditionByTitleAuthor(title, author string) (*entities.Edition, error)
}

// LocalResolver matches rows against the local catalog: exact ISBN-13
// first, then title plus author.
type LocalResolver struct {
	editions EditionFinder
}

// NewLocalResolver creates a resolver over the local edition store.
func NewLocalResolver(editions EditionFinder) *LocalResolver {
	return &LocalResolver{editions: editions}
}

// Resolve maps a raw row to a catalog entity. Returns nil without error
// when nothing matches.
func (r *LocalResolver) Resolve(_ context.Context, data entities.FieldMap) (*catalog.Entity, error) {
	if isbn := normalizeISBN(data["ISBN13"]); isbn != "" {
		edition, err := r.editions.GetEditionByISBN13(isbn)
		if err == nil {
			entity := catalog.EditionEntity(edition)
			return &entity, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &catalog.ResolutionError{Identifier: isbn, Err: err}
		}
	}

	title, author := data["Title"], data["Author"]
	if title == "" || author == "" {
		return nil, nil
	}
	edition, err := r.editions.GetEditionByTitleAuthor(title, author)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &catalog.ResolutionError{Identifier: title, Err: err}
	}
	entity := catalog.EditionEntity(edition)
	return &entity, nil
}

// normalizeISBN strips the ="..." wrapper spreadsheet exports put around
// ISBN columns, plus hyphens and spaces.
func normalizeISBN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, `="`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
