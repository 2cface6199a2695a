// Package timelines stores each user's milestone collection as a single
// JSONB document guarded by a revision counter.
package timelines

import (
	"context"

	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type Repository interface {
	// Get never fails with not found: a user without a row has an empty
	// collection at revision 0.
	Get(ctx context.Context, userID string) (*models.Timeline, error)

	// Replace overwrites the collection when the stored revision equals
	// expected and returns the new revision. Otherwise it returns
	// common.ErrVersionConflict.
	Replace(ctx context.Context, userID string, items []models.TimelineItem, expected int64) (int64, error)
}
