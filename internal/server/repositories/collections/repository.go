package collections

import (
	"context"

	"github.com/passkeeper/server/internal/server/models"
)

// Repository is the collection store used by the collection access service.
type Repository interface {
	// GetDefaultForUser returns the collection flagged default for the
	// user, or common.ErrorNotFound when the user has none.
	GetDefaultForUser(ctx context.Context, userID int64) (*models.Collection, error)

	// Create inserts a new collection and returns it with the row id set.
	Create(ctx context.Context, collection *models.Collection) (*models.Collection, error)

	// CreateMembership inserts a membership row linking a user to a
	// collection.
	CreateMembership(ctx context.Context, member *models.CollectionMember) error
}
