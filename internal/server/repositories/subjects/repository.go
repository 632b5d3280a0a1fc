// Package subjects contains the persistence layer for exam subjects.
//
// Every query that targets a single subject filters by both id and owner, so
// a subject owned by someone else behaves exactly like a missing one.
package subjects

import (
	"context"

	"github.com/egetrack/egetrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, subject *models.Subject) (*models.Subject, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Subject, error)

	// LockOwnedForUpdate takes a row lock on the owner's subject, blocking
	// concurrent writers for the rest of the transaction. Returns
	// common.ErrorNotFound when the subject is absent or owned by another
	// user.
	LockOwnedForUpdate(ctx context.Context, id string, userID int64) error

	// LockOwnedShared takes a shared lock: concurrent readers proceed, a
	// concurrent delete waits.
	LockOwnedShared(ctx context.Context, id string, userID int64) error

	SetArchived(ctx context.Context, id string, userID int64, archived bool) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
}
