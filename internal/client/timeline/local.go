package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/codec"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/datex"
)

const slotPrefix = "@profile_timeline_"

// SlotKey is the storage key of a profile's local timeline.
func SlotKey(profile string) string {
	return slotPrefix + profile
}

// localRecord is the JSON shape kept in the slot. Media is kept as URLs and
// cannot be resolved again.
type localRecord struct {
	ID             string   `json:"id"`
	Year           int      `json:"year"`
	Date           string   `json:"date"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Highlight      *string  `json:"highlight,omitempty"`
	CoverImage     *string  `json:"cover_image,omitempty"`
	Media          []string `json:"media"`
	LinkedPostIDs  []string `json:"linked_post_ids"`
	LinkedEventIDs []string `json:"linked_event_ids"`
	LinkedPeople   []string `json:"linked_people"`
}

// LocalStore keeps the timeline in one slot of the on-device store.
type LocalStore struct {
	slots SlotStore
	key   string

	mu     sync.Mutex
	lastID int64
}

func NewLocalStore(slots SlotStore, profile string) *LocalStore {
	return &LocalStore{slots: slots, key: SlotKey(profile)}
}

func (s *LocalStore) Key() string { return s.key }

func (s *LocalStore) Load(ctx context.Context) (*Collection, error) {
	raw, err := s.slots.ReadSlot(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &Collection{Items: []models.Milestone{}}, nil
	}

	var recs []localRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", s.key, err)
	}

	c := &Collection{Items: make([]models.Milestone, 0, len(recs))}
	for _, r := range recs {
		c.Items = append(c.Items, r.milestone())
	}
	return c, nil
}

// Save writes c to the slot; an empty collection removes the slot.
func (s *LocalStore) Save(ctx context.Context, c *Collection) (*Collection, error) {
	if len(c.Items) == 0 {
		if err := s.slots.DeleteSlot(ctx, s.key); err != nil {
			return nil, err
		}
		return &Collection{Items: []models.Milestone{}}, nil
	}

	recs := make([]localRecord, 0, len(c.Items))
	for _, m := range c.Items {
		recs = append(recs, newLocalRecord(m))
	}

	raw, err := json.Marshal(recs)
	if err != nil {
		return nil, err
	}
	if err := s.slots.WriteSlot(ctx, s.key, raw); err != nil {
		return nil, err
	}

	out := &Collection{Items: make([]models.Milestone, 0, len(recs))}
	for _, r := range recs {
		out.Items = append(out.Items, r.milestone())
	}
	return out, nil
}

func (s *LocalStore) Owns(id string) bool {
	return models.KindOf(id) == models.IDLocal
}

// AssignID issues "tl-<ms>", bumping the millisecond when two entries are
// created within the same one.
func (s *LocalStore) AssignID(m *models.Milestone, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	m.ID = models.NewLocalID(time.UnixMilli(ms))
}

// Arrange sorts ascending by year, keeping insertion order within a year.
func (s *LocalStore) Arrange(items []models.Milestone) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Year < items[j].Year })
}

func newLocalRecord(m models.Milestone) localRecord {
	r := localRecord{
		ID:             m.ID,
		Year:           m.Year,
		Title:          m.Title,
		Description:    m.Description,
		Media:          make([]string, 0, len(m.Media)),
		LinkedPostIDs:  append([]string{}, m.LinkedPostIDs...),
		LinkedEventIDs: append([]string{}, m.LinkedEventIDs...),
		LinkedPeople:   codec.NormalizePeople(m.LinkedPeople),
	}
	if m.EventDate != nil {
		r.Date = datex.FormatDisplay(*m.EventDate)
	}
	if m.Highlight != nil {
		h := *m.Highlight
		r.Highlight = &h
	}
	if m.Cover != nil {
		u := flatten(*m.Cover)
		r.CoverImage = &u
	}
	for _, d := range m.Media {
		r.Media = append(r.Media, flatten(d))
	}
	return r
}

func flatten(d models.MediaDescriptor) string {
	if u := d.ThumbnailURL(); u != "" {
		return u
	}
	return d.ID
}

func (r localRecord) milestone() models.Milestone {
	m := models.Milestone{
		ID:             r.ID,
		Year:           r.Year,
		Title:          r.Title,
		LinkedPostIDs:  append([]string{}, r.LinkedPostIDs...),
		LinkedEventIDs: append([]string{}, r.LinkedEventIDs...),
	}

	if r.LinkedPeople != nil {
		m.Description = r.Description
		m.LinkedPeople = codec.NormalizePeople(r.LinkedPeople)
	} else {
		m.Description, m.LinkedPeople = codec.DecodeDescription(r.Description)
	}

	if r.Date != "" {
		m.EventDate = datex.Ptr(r.Date)
	}
	if r.Highlight != nil {
		h := *r.Highlight
		m.Highlight = &h
	}
	for _, u := range r.Media {
		m.Media = append(m.Media, urlDescriptor(u))
	}
	if r.CoverImage != nil && *r.CoverImage != "" {
		c := urlDescriptor(*r.CoverImage)
		m.Cover = &c
	}
	return m
}

// urlDescriptor stands in for media known only by URL; the URL doubles as id.
func urlDescriptor(u string) models.MediaDescriptor {
	return models.MediaDescriptor{ID: u, Kind: models.MediaImage, URLs: []string{u}}
}
