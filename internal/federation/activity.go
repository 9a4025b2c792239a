// Package federation describes outgoing state-change events and the
// delivery contract. Transport and signing live outside this module; the
// import pipeline only builds activities and hands them to a Broadcaster.
package federation

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/bookmoth/bookmoth/internal/entities"
)

// ActivityType is the kind of state change being announced.
type ActivityType string

const (
	ActivityAdd    ActivityType = "Add"    // edition added to a shelf
	ActivityCreate ActivityType = "Create" // new review published
)

// Activity is one state-change event addressed to a user's federation
// audience.
type Activity struct {
	ID      string       `json:"id"`
	Type    ActivityType `json:"type"`
	ActorID uint         `json:"actor_id"`
	Summary string       `json:"summary"`

	EditionID uint `json:"edition_id,omitempty"`
	ShelfID   uint `json:"shelf_id,omitempty"`
	ReviewID  uint `json:"review_id,omitempty"`
}

// AddActivity builds the event announcing a shelving.
func AddActivity(actor *entities.User, shelfBook *entities.ShelfBook) Activity {
	return Activity{
		ID:        uuid.NewString(),
		Type:      ActivityAdd,
		ActorID:   actor.ID,
		Summary:   fmt.Sprintf("%s shelved an edition", actor.Username),
		EditionID: shelfBook.EditionID,
		ShelfID:   shelfBook.ShelfID,
	}
}

// CreateActivity builds the event announcing a new review.
func CreateActivity(actor *entities.User, review *entities.Review) Activity {
	return Activity{
		ID:        uuid.NewString(),
		Type:      ActivityCreate,
		ActorID:   actor.ID,
		Summary:   fmt.Sprintf("%s reviewed an edition", actor.Username),
		EditionID: review.EditionID,
		ReviewID:  review.ID,
	}
}

// Broadcaster delivers activities to a user's federation audience at a
// privacy level. Delivery is fire-and-forget from the caller's point of
// view: implementations may fail but must return.
type Broadcaster interface {
	Broadcast(ctx context.Context, actor *entities.User, activity Activity, privacy entities.Privacy) error
}

// LogBroadcaster logs deliveries instead of sending them. Used when no
// federation transport is wired in.
type LogBroadcaster struct{}

func (LogBroadcaster) Broadcast(_ context.Context, actor *entities.User, activity Activity, privacy entities.Privacy) error {
	log.Printf("[FEDERATION] %s activity %s from %s (privacy: %s)",
		activity.Type, activity.ID, actor.Username, privacy)
	return nil
}
