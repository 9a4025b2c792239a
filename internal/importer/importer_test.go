package importer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookmoth/bookmoth/internal/catalog"
	"github.com/bookmoth/bookmoth/internal/database/editions"
	"github.com/bookmoth/bookmoth/internal/database/imports"
	"github.com/bookmoth/bookmoth/internal/database/notifications"
	"github.com/bookmoth/bookmoth/internal/database/reviews"
	"github.com/bookmoth/bookmoth/internal/database/shelves"
	"github.com/bookmoth/bookmoth/internal/database/users"
	"github.com/bookmoth/bookmoth/internal/entities"
	"github.com/bookmoth/bookmoth/internal/federation"
)

type testEnv struct {
	db            *gorm.DB
	imports       *imports.Repository
	users         *users.Repository
	editions      *editions.Repository
	shelves       *shelves.Repository
	reviews       *reviews.Repository
	notifications *notifications.Repository
	owner         *entities.User
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "importer_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Work{},
		&entities.Edition{},
		&entities.Shelf{},
		&entities.ShelfBook{},
		&entities.ReadThrough{},
		&entities.Review{},
		&entities.Notification{},
		&entities.ImportBatch{},
		&entities.ImportRecord{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	userRepo := users.NewRepository(db)
	owner, err := userRepo.CreateUser("mouse", "mouse@example.com")
	require.NoError(t, err)

	return &testEnv{
		db:            db,
		imports:       imports.NewRepository(db),
		users:         userRepo,
		editions:      editions.NewRepository(db),
		shelves:       shelves.NewRepository(db),
		reviews:       reviews.NewRepository(db),
		notifications: notifications.NewRepository(db),
		owner:         owner,
	}
}

func (e *testEnv) createEdition(t *testing.T, title, author, isbn string) *entities.Edition {
	t.Helper()
	edition := &entities.Edition{Title: title, Author: author, ISBN13: isbn}
	require.NoError(t, e.editions.CreateEdition(edition))
	return edition
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// parserFunc adapts a function to the RowParser interface.
type parserFunc func(entities.FieldMap) ParsedRow

func (f parserFunc) Parse(data entities.FieldMap) ParsedRow { return f(data) }

var noopParser = parserFunc(func(entities.FieldMap) ParsedRow { return ParsedRow{} })

// resolverFunc adapts a function to the catalog.Resolver interface.
type resolverFunc func(ctx context.Context, data entities.FieldMap) (*catalog.Entity, error)

func (f resolverFunc) Resolve(ctx context.Context, data entities.FieldMap) (*catalog.Entity, error) {
	return f(ctx, data)
}

func editionResolver(edition *entities.Edition) resolverFunc {
	return func(context.Context, entities.FieldMap) (*catalog.Entity, error) {
		entity := catalog.EditionEntity(edition)
		return &entity, nil
	}
}

func noMatchResolver() resolverFunc {
	return func(context.Context, entities.FieldMap) (*catalog.Entity, error) {
		return nil, nil
	}
}

// fakeBroadcaster records every delivered activity.
type fakeBroadcaster struct {
	mu         sync.Mutex
	activities []federation.Activity
	privacies  []entities.Privacy
	err        error
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, _ *entities.User, activity federation.Activity, privacy entities.Privacy) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.activities = append(b.activities, activity)
	b.privacies = append(b.privacies, privacy)
	return nil
}

func (b *fakeBroadcaster) calls() []federation.Activity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]federation.Activity(nil), b.activities...)
}

// completeFailStore fails persisting the completion flag and passes
// everything else through.
type completeFailStore struct {
	BatchStore
	err error
}

func (s *completeFailStore) MarkComplete(uint) error { return s.err }

// failingNotifier always fails to deliver the completion notice.
type failingNotifier struct {
	err error
}

func (n failingNotifier) Notify(context.Context, uint, entities.NotificationKind, uint) error {
	return n.err
}

// fakeScheduler hands out canned task refs.
type fakeScheduler struct {
	scheduled []uint
	taskRef   string
	err       error
}

func (s *fakeScheduler) Schedule(_ context.Context, batchID uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.scheduled = append(s.scheduled, batchID)
	return s.taskRef, nil
}
