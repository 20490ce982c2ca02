// Package collections provides a PostgreSQL-backed repository for secret
// collections and their memberships.
package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/dbx"
	"github.com/passkeeper/server/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetDefaultForUser(ctx context.Context, userID int64) (*models.Collection, error) {
	query :=
		`SELECT c.id, c.name, c.challenge_key_hash, c.challenge_key_salt
		 FROM collections c
		 JOIN user_collection_members m ON m.collection_id = c.id
		 WHERE m.user_id = $1 AND m.is_default_for_user
		 `

	collection := &models.Collection{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&collection.ID, &collection.Name, &collection.ChallengeKeyHash, &collection.ChallengeKeySalt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collection, nil
}

func (r *PostgresRepository) Create(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	query :=
		`INSERT INTO collections (name, challenge_key_hash, challenge_key_salt)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		collection.Name, collection.ChallengeKeyHash, collection.ChallengeKeySalt).Scan(&collection.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collection, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, member *models.CollectionMember) error {
	query :=
		`INSERT INTO user_collection_members (user_id, collection_id, is_default_for_user)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, member.UserID, member.CollectionID, member.IsDefaultForUser); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
