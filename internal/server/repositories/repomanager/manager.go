// Package repomanager vends repository implementations bound to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/validoio/valido/internal/dbx"
	"github.com/validoio/valido/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to the provided DBTX, so
// services can run repository calls either directly against the pool or
// inside a transaction they control.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
