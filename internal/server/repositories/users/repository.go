// Package users stores gateway accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophtimeline/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its ID. A taken username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
