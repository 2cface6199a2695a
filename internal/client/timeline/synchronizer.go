// Package timeline reads, merges and writes the milestone collection. The
// same merge logic runs against the gateway or the on-device slot store.
package timeline

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/logging"
)

type State int

const (
	StateIdle State = iota
	StateFetching
	StateMerging
	StateWriting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateMerging:
		return "merging"
	case StateWriting:
		return "writing"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Synchronizer struct {
	store CollectionStore
	log   logging.Logger
	now   func() time.Time

	saving atomic.Bool

	mu    sync.Mutex
	state State
}

func NewSynchronizer(store CollectionStore, log logging.Logger) *Synchronizer {
	return &Synchronizer{
		store: store,
		log:   log.With("module", "timeline"),
		now:   time.Now,
	}
}

// Store returns the backing store.
func (s *Synchronizer) Store() CollectionStore { return s.store }

// Saving reports whether a Save or Delete is in flight.
func (s *Synchronizer) Saving() bool { return s.saving.Load() }

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Synchronizer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Synchronizer) fail(ctx context.Context, op string, err error) error {
	s.setState(StateFailed)
	s.log.Error(ctx, "timeline sync failed", "op", op, "error", err)
	return &SyncError{Op: op, Err: err}
}

func indexOf(items []models.Milestone, id string) int {
	return slices.IndexFunc(items, func(m models.Milestone) bool { return m.ID == id })
}

// Save stores m: an entry whose id the store issued and which is present is
// replaced in place, anything else is appended under a fresh id. The whole
// collection is written back in one call. It returns the stored copy.
func (s *Synchronizer) Save(ctx context.Context, m models.Milestone) (models.Milestone, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return models.Milestone{}, ErrBusy
	}
	defer s.saving.Store(false)

	s.setState(StateFetching)
	col, err := s.store.Load(ctx)
	if err != nil {
		return models.Milestone{}, s.fail(ctx, "fetch", err)
	}

	s.setState(StateMerging)
	now := s.now()
	m = m.Clone()
	m.DefaultCover()
	if m.Year == 0 {
		if m.EventDate != nil {
			m.Year = m.EventDate.Year
		} else {
			m.Year = now.Year()
		}
	}

	pos := -1
	if m.ID != "" && s.store.Owns(m.ID) {
		pos = indexOf(col.Items, m.ID)
	}
	if pos >= 0 {
		col.Items[pos] = m
	} else {
		s.store.AssignID(&m, now)
		col.Items = append(col.Items, m)
		pos = len(col.Items) - 1
	}
	s.store.Arrange(col.Items)
	if m.ID != "" {
		pos = indexOf(col.Items, m.ID)
	}

	s.setState(StateWriting)
	stored, err := s.store.Save(ctx, col)
	if err != nil {
		return models.Milestone{}, s.fail(ctx, "write", err)
	}

	if m.ID != "" {
		pos = indexOf(stored.Items, m.ID)
	}
	if pos < 0 || pos >= len(stored.Items) {
		return models.Milestone{}, s.fail(ctx, "merge", ErrNotFound)
	}

	s.setState(StateIdle)
	out := stored.Items[pos]
	s.log.Info(ctx, "milestone saved", "id", out.ID, "items", len(stored.Items))
	return out, nil
}

// Delete removes id and writes the reduced collection back.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if !s.saving.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.saving.Store(false)

	s.setState(StateFetching)
	col, err := s.store.Load(ctx)
	if err != nil {
		return s.fail(ctx, "fetch", err)
	}

	s.setState(StateMerging)
	pos := indexOf(col.Items, id)
	if id == "" || pos < 0 {
		return s.fail(ctx, "merge", ErrNotFound)
	}
	col.Items = slices.Delete(col.Items, pos, pos+1)

	s.setState(StateWriting)
	if _, err := s.store.Save(ctx, col); err != nil {
		return s.fail(ctx, "write", err)
	}

	s.setState(StateIdle)
	s.log.Info(ctx, "milestone deleted", "id", id)
	return nil
}

func (s *Synchronizer) List(ctx context.Context) ([]models.Milestone, error) {
	col, err := s.store.Load(ctx)
	if err != nil {
		return nil, &SyncError{Op: "fetch", Err: err}
	}
	return col.Items, nil
}

func (s *Synchronizer) Get(ctx context.Context, id string) (models.Milestone, error) {
	items, err := s.List(ctx)
	if err != nil {
		return models.Milestone{}, err
	}
	pos := indexOf(items, id)
	if id == "" || pos < 0 {
		return models.Milestone{}, &SyncError{Op: "fetch", Err: ErrNotFound}
	}
	return items[pos], nil
}
