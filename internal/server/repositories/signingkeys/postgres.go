// Package signingkeys provides a PostgreSQL-backed repository for the
// server's singleton token signing key.
package signingkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passkeeper/server/internal/common"
	"github.com/passkeeper/server/internal/dbx"
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

func (r *PostgresRepository) Get(ctx context.Context) ([]byte, error) {
	query := `SELECT signing_key FROM key_data WHERE id = 1`

	var key []byte
	if err := r.db.QueryRowContext(ctx, query).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return key, nil
}

// SetIfAbsent relies on the singleton primary key: the conflict target makes
// the insert a no-op when a key already exists, and the follow-up select
// returns whichever key won.
func (r *PostgresRepository) SetIfAbsent(ctx context.Context, key []byte) ([]byte, error) {
	query :=
		`INSERT INTO key_data (id, signing_key)
		 VALUES (1, $1)
		 ON CONFLICT (id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx)
}
