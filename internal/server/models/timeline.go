package models

import "github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"

// TimelineItem is stored exactly as it travels on the wire.
type TimelineItem = gatewayapi.TimelineEntry

// Timeline is a user's whole collection. Revision 0 means nothing was ever
// written; every successful replace increments it.
type Timeline struct {
	UserID   string
	Items    []TimelineItem
	Revision int64
}
