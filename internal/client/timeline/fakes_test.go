package timeline

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/google/uuid"
)

var errConflict = errors.New("conflict")

type fakeGateway struct {
	mu         sync.Mutex
	items      []models.TimelineEntry
	revision   int64
	fetches    int
	replaces   [][]models.TimelineEntry
	fetchErr   error
	replaceErr error
	hold       chan struct{}
}

func (f *fakeGateway) FetchTimeline(ctx context.Context, subject string) (*models.TimelinePage, error) {
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &models.TimelinePage{Items: append([]models.TimelineEntry{}, f.items...), Revision: f.revision}, nil
}

func (f *fakeGateway) ReplaceTimeline(ctx context.Context, items []models.TimelineEntry, revision int64) (*models.TimelinePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces = append(f.replaces, append([]models.TimelineEntry{}, items...))
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	if revision != f.revision {
		return nil, errConflict
	}
	stored := make([]models.TimelineEntry, len(items))
	for i, e := range items {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		stored[i] = e
	}
	f.items = stored
	f.revision++
	return &models.TimelinePage{Items: append([]models.TimelineEntry{}, stored...), Revision: f.revision}, nil
}

type memSlots struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
	err     error
}

func newMemSlots() *memSlots { return &memSlots{data: map[string][]byte{}} }

func (m *memSlots) ReadSlot(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (m *memSlots) WriteSlot(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte{}, value...)
	return nil
}

func (m *memSlots) DeleteSlot(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.data, key)
	return nil
}
