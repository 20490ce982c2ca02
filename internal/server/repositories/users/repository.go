package users

import (
	"context"

	"github.com/passkeeper/server/internal/server/models"
)

// Repository is the credential store used by the authentication service.
type Repository interface {
	// Upsert inserts the user or, when the username already exists,
	// updates the stored credential. The returned user carries the row id.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Exists reports whether users exist. With admin nil any user counts;
	// otherwise only users whose admin flag matches *admin.
	Exists(ctx context.Context, admin *bool) (bool, error)

	// ListAll returns all users.
	ListAll(ctx context.Context) ([]*models.User, error)

	// Delete removes the user with the given id.
	Delete(ctx context.Context, id int64) error
}
