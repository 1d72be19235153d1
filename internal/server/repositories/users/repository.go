// Package users declares the server-side repository contract for user
// accounts and its PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/projecthub/internal/server/models"
)

// Repository persists users. Email uniqueness is enforced by the
// implementation's storage, not by callers: Create returns
// common.ErrDuplicateEmail when the email is taken. Lookups of absent
// users return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}
