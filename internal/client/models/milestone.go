// Package models defines the client-side timeline types: milestones, media
// descriptors and the catalog summaries used for linking.
package models

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers generated by the local store.
const LocalIDPrefix = "tl-"

// IDKind tells which store an identifier belongs to.
type IDKind int

const (
	IDNone IDKind = iota
	IDRemote
	IDLocal
)

func (k IDKind) String() string {
	switch k {
	case IDRemote:
		return "remote"
	case IDLocal:
		return "local"
	default:
		return "none"
	}
}

// KindOf classifies id. Anything that is neither a local id nor a UUID is
// treated as IDNone.
func KindOf(id string) IDKind {
	switch {
	case id == "":
		return IDNone
	case strings.HasPrefix(id, LocalIDPrefix):
		return IDLocal
	default:
		if _, err := uuid.Parse(id); err == nil {
			return IDRemote
		}
		return IDNone
	}
}

// NewLocalID returns "tl-<unix millis>".
func NewLocalID(now time.Time) string {
	return LocalIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// Milestone is one timeline entry as the composer and the stores see it.
// Description never contains the people sentinel line.
type Milestone struct {
	ID             string
	Year           int
	EventDate      *civil.Date
	Title          string
	Description    string
	Highlight      *string
	Cover          *MediaDescriptor
	Media          []MediaDescriptor
	LinkedPostIDs  []string
	LinkedEventIDs []string
	LinkedPeople   []string
}

func (m *Milestone) IDKind() IDKind { return KindOf(m.ID) }

// CoverMediaID is empty when no cover is set.
func (m *Milestone) CoverMediaID() string {
	if m.Cover == nil {
		return ""
	}
	return m.Cover.ID
}

func (m *Milestone) MediaIDs() []string {
	ids := make([]string, 0, len(m.Media))
	for _, d := range m.Media {
		ids = append(ids, d.ID)
	}
	return ids
}

// DefaultCover sets the cover to the first gallery item when none is set.
func (m *Milestone) DefaultCover() {
	if m.Cover == nil && len(m.Media) > 0 {
		c := m.Media[0].Clone()
		m.Cover = &c
	}
}

// Clone returns a deep copy.
func (m Milestone) Clone() Milestone {
	out := m
	if m.EventDate != nil {
		d := *m.EventDate
		out.EventDate = &d
	}
	if m.Highlight != nil {
		h := *m.Highlight
		out.Highlight = &h
	}
	if m.Cover != nil {
		c := m.Cover.Clone()
		out.Cover = &c
	}
	if m.Media != nil {
		out.Media = make([]MediaDescriptor, len(m.Media))
		for i, d := range m.Media {
			out.Media[i] = d.Clone()
		}
	}
	out.LinkedPostIDs = slices.Clone(m.LinkedPostIDs)
	out.LinkedEventIDs = slices.Clone(m.LinkedEventIDs)
	out.LinkedPeople = slices.Clone(m.LinkedPeople)
	return out
}

// TimelineEntry is the wire shape of a milestone.
type TimelineEntry = gatewayapi.TimelineEntry

// TimelinePage is a fetched collection together with its revision token.
type TimelinePage struct {
	Items    []TimelineEntry
	Revision int64
}
