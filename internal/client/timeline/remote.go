package timeline

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/client/codec"
	"github.com/dmitrijs2005/gophtimeline/internal/client/models"
	"github.com/dmitrijs2005/gophtimeline/internal/datex"
)

// RemoteStore keeps the timeline on the gateway. Writes replace the whole
// collection and are rejected when the revision moved since Load.
type RemoteStore struct {
	gw       Gateway
	subject  string
	encoding PeopleEncoding
}

func NewRemoteStore(gw Gateway, subject string, encoding PeopleEncoding) *RemoteStore {
	if !encoding.Valid() {
		encoding = PeopleStructured
	}
	return &RemoteStore{gw: gw, subject: subject, encoding: encoding}
}

func (s *RemoteStore) Load(ctx context.Context) (*Collection, error) {
	page, err := s.gw.FetchTimeline(ctx, s.subject)
	if err != nil {
		return nil, err
	}
	return fromPage(page), nil
}

func (s *RemoteStore) Save(ctx context.Context, c *Collection) (*Collection, error) {
	items := make([]models.TimelineEntry, 0, len(c.Items))
	for _, m := range c.Items {
		items = append(items, ToEntry(m, s.encoding))
	}

	page, err := s.gw.ReplaceTimeline(ctx, items, c.Revision)
	if err != nil {
		return nil, err
	}
	return fromPage(page), nil
}

func (s *RemoteStore) Owns(id string) bool {
	return models.KindOf(id) == models.IDRemote
}

// AssignID clears the id; the gateway issues one on write.
func (s *RemoteStore) AssignID(m *models.Milestone, _ time.Time) {
	m.ID = ""
}

func (s *RemoteStore) Arrange([]models.Milestone) {}

func fromPage(p *models.TimelinePage) *Collection {
	c := &Collection{Revision: p.Revision, Items: make([]models.Milestone, 0, len(p.Items))}
	for _, e := range p.Items {
		c.Items = append(c.Items, FromEntry(e))
	}
	return c
}

// FromEntry converts a wire entry. Rows without linked_people carry people
// in the description's last line.
func FromEntry(e models.TimelineEntry) models.Milestone {
	m := models.Milestone{
		ID:             e.ID,
		Year:           e.Year,
		Title:          e.Title,
		LinkedPostIDs:  append([]string{}, e.LinkedPostIDs...),
		LinkedEventIDs: append([]string{}, e.LinkedEventIDs...),
	}

	if e.LinkedPeople != nil {
		m.Description = e.Description
		m.LinkedPeople = codec.NormalizePeople(e.LinkedPeople)
	} else {
		m.Description, m.LinkedPeople = codec.DecodeDescription(e.Description)
	}

	if e.EventDate != nil {
		m.EventDate = datex.Ptr(*e.EventDate)
	}
	if m.Year == 0 && m.EventDate != nil {
		m.Year = m.EventDate.Year
	}
	if e.Highlight != nil {
		h := *e.Highlight
		m.Highlight = &h
	}
	for _, id := range e.MediaIDs {
		m.Media = append(m.Media, models.MediaDescriptor{ID: id, Kind: models.MediaImage})
	}
	if e.CoverMediaID != nil && *e.CoverMediaID != "" {
		m.Cover = &models.MediaDescriptor{ID: *e.CoverMediaID, Kind: models.MediaImage}
	}
	return m
}

// ToEntry converts m for the wire. Ids not issued by the gateway are not
// sent.
func ToEntry(m models.Milestone, enc PeopleEncoding) models.TimelineEntry {
	e := models.TimelineEntry{
		Year:           m.Year,
		Title:          m.Title,
		MediaIDs:       m.MediaIDs(),
		LinkedPostIDs:  append([]string{}, m.LinkedPostIDs...),
		LinkedEventIDs: append([]string{}, m.LinkedEventIDs...),
	}
	if models.KindOf(m.ID) == models.IDRemote {
		e.ID = m.ID
	}

	people := codec.NormalizePeople(m.LinkedPeople)
	if enc == PeopleSentinel {
		e.Description = codec.EncodeDescription(m.Description, people)
	} else {
		e.Description = m.Description
		e.LinkedPeople = people
	}

	if m.EventDate != nil {
		s := datex.FormatISO(*m.EventDate)
		e.EventDate = &s
	}
	if m.Highlight != nil {
		h := *m.Highlight
		e.Highlight = &h
	}
	if id := m.CoverMediaID(); id != "" {
		e.CoverMediaID = &id
	}
	return e
}
