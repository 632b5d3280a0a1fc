package repomanager

import (
	"context"
	"database/sql"

	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/server/repositories/attempts"
	"github.com/egetrack/egetrack/internal/server/repositories/subjects"
	"github.com/egetrack/egetrack/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, which
// is either the shared *sql.DB or an open *sql.Tx. Binding per call is what
// lets services run an ownership check and the guarded mutation on the same
// transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Subjects(db dbx.DBTX) subjects.Repository
	Attempts(db dbx.DBTX) attempts.Repository
}
