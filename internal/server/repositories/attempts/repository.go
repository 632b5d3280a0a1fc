// Package attempts contains the persistence layer for task attempts.
// Attempt rows are append-only; the only delete path is the cascading
// removal that accompanies a subject delete.
package attempts

import (
	"context"

	"github.com/egetrack/egetrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, attempt *models.Attempt) (*models.Attempt, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*models.Attempt, error)
	DeleteBySubject(ctx context.Context, subjectID string) error
}
