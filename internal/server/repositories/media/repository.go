// Package media tracks uploaded assets and their upload status.
package media

import (
	"context"

	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Media) error
	// MarkUploaded flips a pending row owned by ownerID to uploaded.
	// Unknown ids and foreign rows both yield common.ErrorNotFound.
	MarkUploaded(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, id string) (*models.Media, error)
}
