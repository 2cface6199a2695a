package timeline

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
)

// Collection is a whole timeline plus the revision it was read at.
type Collection struct {
	Items    []models.Milestone
	Revision int64
}

// CollectionStore is where a timeline lives. The synchronizer merges against
// it without knowing whether it is remote or local.
type CollectionStore interface {
	Load(ctx context.Context) (*Collection, error)
	// Save replaces the whole collection and returns it as stored.
	Save(ctx context.Context, c *Collection) (*Collection, error)
	// Owns reports whether id was issued by this store.
	Owns(id string) bool
	// AssignID prepares a new entry's id before it is appended.
	AssignID(m *models.Milestone, now time.Time)
	// Arrange orders items for writing. Stores that leave ids empty for
	// the server to fill must not reorder.
	Arrange(items []models.Milestone)
}

// Gateway is the timeline side of the remote gateway.
type Gateway interface {
	FetchTimeline(ctx context.Context, subject string) (*models.TimelinePage, error)
	ReplaceTimeline(ctx context.Context, items []models.TimelineEntry, revision int64) (*models.TimelinePage, error)
}

// SlotStore is an on-device key/value store. ReadSlot returns nil, nil for
// an absent key.
type SlotStore interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
	DeleteSlot(ctx context.Context, key string) error
}

// PeopleEncoding selects how linked people are written remotely.
type PeopleEncoding string

const (
	// PeopleStructured writes the linked_people field.
	PeopleStructured PeopleEncoding = "structured"
	// PeopleSentinel appends a "People:" line to the description instead.
	PeopleSentinel PeopleEncoding = "sentinel"
)

func (e PeopleEncoding) Valid() bool {
	return e == PeopleStructured || e == PeopleSentinel
}
