// Package refreshtokens persists the opaque refresh tokens handed out at
// login. Each token is single use: refreshing deletes it and issues another.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	// PurgeExpired drops the user's tokens that expired before now and
	// reports how many were removed.
	PurgeExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
