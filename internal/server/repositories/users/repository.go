// Package users contains the persistence layer for registered users.
package users

import (
	"context"

	"github.com/egetrack/egetrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
