package repomanager

import (
	"context"
	"database/sql"

	"github.com/passkeeper/server/internal/dbx"
	"github.com/passkeeper/server/internal/server/repositories/collections"
	"github.com/passkeeper/server/internal/server/repositories/signingkeys"
	"github.com/passkeeper/server/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX,
// letting services run any repository against either the pool or an open
// transaction. It also exposes the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Collections(db dbx.DBTX) collections.Repository
	SigningKeys(db dbx.DBTX) signingkeys.Repository
}
