package users

import (
	"context"
	"time"

	"github.com/validoio/valido/internal/server/models"
)

// Repository is the persistence contract the credential service depends on.
// Lookups return common.ErrNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	MarkVerifiedAndActive(ctx context.Context, id string, when time.Time) error
}
