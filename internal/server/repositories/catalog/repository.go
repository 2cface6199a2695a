// Package catalog reads the link candidates a milestone can point at:
// posts, competitions and people.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type Repository interface {
	PostsByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
	Competitions(ctx context.Context, limit int) ([]models.Competition, error)
	// SearchPeople matches display names case-insensitively by substring.
	SearchPeople(ctx context.Context, query string, limit int) ([]models.Person, error)
}
