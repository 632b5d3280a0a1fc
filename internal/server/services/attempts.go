package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/server/models"
	"github.com/egetrack/egetrack/internal/server/repositories/repomanager"
)

// now is a seam for tests; attempt dates always come from the server clock.
var now = time.Now

// RecordAttemptParams carries the client-supplied fields for a new attempt.
// Any client-supplied date is ignored: the attempt date is stamped from the
// server clock.
type RecordAttemptParams struct {
	TaskNumber *int
	Status     string
	Points     *int
	MaxPoints  *int
}

type AttemptService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAttemptService(db *sql.DB, m repomanager.RepositoryManager) *AttemptService {
	return &AttemptService{db: db, repomanager: m}
}

// List returns the attempts of an owned subject in chronological order.
// The ownership check and the read share one transaction.
func (s *AttemptService) List(ctx context.Context, userID int64, subjectID string) ([]*models.Attempt, error) {

	subjectID, err := parseSubjectID(subjectID)
	if err != nil {
		return nil, err
	}

	var result []*models.Attempt

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Subjects(tx).LockOwnedShared(ctx, subjectID, userID); err != nil {
			return err
		}

		result, err = s.repomanager.Attempts(tx).ListBySubject(ctx, subjectID)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return result, nil
}

// Record appends a new attempt under an owned subject. It always inserts:
// repeating the same task on the same date yields two rows. The shared lock
// on the subject keeps a concurrent delete from orphaning the new row.
func (s *AttemptService) Record(ctx context.Context, userID int64, subjectID string, params RecordAttemptParams) (*models.Attempt, error) {

	subjectID, err := parseSubjectID(subjectID)
	if err != nil {
		return nil, err
	}

	err = validation.Errors{
		"taskNumber": validation.Validate(params.TaskNumber, validation.NotNil),
		"status":     validation.Validate(params.Status, validation.Required),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	t := now()
	attempt := &models.Attempt{
		SubjectID:   subjectID,
		TaskNumber:  *params.TaskNumber,
		Status:      params.Status,
		Points:      params.Points,
		MaxPoints:   params.MaxPoints,
		AttemptDate: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Subjects(tx).LockOwnedShared(ctx, subjectID, userID); err != nil {
			return err
		}

		attempt, err = s.repomanager.Attempts(tx).Create(ctx, attempt)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return attempt, nil
}
