package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/catalog"
	"github.com/bookmoth/bookmoth/internal/entities"
)

type fakeFinder struct {
	byISBN  map[string]*entities.Edition
	byTitle map[string]*entities.Edition
	err     error
}

func (f *fakeFinder) GetEditionByISBN13(isbn string) (*entities.Edition, error) {
	if f.err != nil {
		return nil, f.err
	}
	if edition, ok := f.byISBN[isbn]; ok {
		return edition, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFinder) GetEditionByTitleAuthor(title, _ string) (*entities.Edition, error) {
	if f.err != nil {
		return nil, f.err
	}
	if edition, ok := f.byTitle[title]; ok {
		return edition, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestLocalResolver_MatchByISBN(t *testing.T) {
	edition := &entities.Edition{ID: 1, Title: "Foo", ISBN13: "9781234567890"}
	r := NewLocalResolver(&fakeFinder{byISBN: map[string]*entities.Edition{"9781234567890": edition}})

	entity, err := r.Resolve(context.Background(), entities.FieldMap{
		"ISBN13": `="9781234567890"`, "Title": "Foo", "Author": "Bar",
	})
	require.NoError(t, err)
	require.NotNil(t, entity)

	resolved, ok := entity.Edition()
	require.True(t, ok)
	assert.Equal(t, edition.ID, resolved.ID)
}

func TestLocalResolver_FallsBackToTitleAuthor(t *testing.T) {
	edition := &entities.Edition{ID: 2, Title: "Foo"}
	r := NewLocalResolver(&fakeFinder{byTitle: map[string]*entities.Edition{"Foo": edition}})

	entity, err := r.Resolve(context.Background(), entities.FieldMap{
		"ISBN13": "9780000000000", "Title": "Foo", "Author": "Bar",
	})
	require.NoError(t, err)
	require.NotNil(t, entity)
}

func TestLocalResolver_NoMatch(t *testing.T) {
	r := NewLocalResolver(&fakeFinder{})

	entity, err := r.Resolve(context.Background(), entities.FieldMap{
		"ISBN13": "9780000000000", "Title": "Foo", "Author": "Bar",
	})
	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestLocalResolver_StorageErrorWrapped(t *testing.T) {
	r := NewLocalResolver(&fakeFinder{err: errors.New("disk on fire")})

	_, err := r.Resolve(context.Background(), entities.FieldMap{
		"ISBN13": "9780000000000", "Title": "Foo", "Author": "Bar",
	})
	require.Error(t, err)

	var resolutionErr *catalog.ResolutionError
	assert.ErrorAs(t, err, &resolutionErr)
}

func TestNormalizeISBN(t *testing.T) {
	assert.Equal(t, "9781234567890", normalizeISBN(`="9781234567890"`))
	assert.Equal(t, "9781234567890", normalizeISBN("978-1-234-56789-0"))
	assert.Equal(t, "", normalizeISBN(""))
}
