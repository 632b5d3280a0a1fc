package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/server/models"
	"github.com/egetrack/egetrack/internal/server/repositories/repomanager"
)

const (
	defaultIcon  = "BookOpen"
	defaultColor = "bg-blue-500"
)

// CreateSubjectParams carries the client-supplied fields for a new subject.
// Range bounds are pointers so that 0 is distinguishable from absent.
type CreateSubjectParams struct {
	Name           string
	Part1From      *int
	Part1To        *int
	Part2From      *int
	Part2To        *int
	Part2MaxPoints map[string]int
	Icon           string
	Color          string
}

type SubjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubjectService(db *sql.DB, m repomanager.RepositoryManager) *SubjectService {
	return &SubjectService{db: db, repomanager: m}
}

// parseSubjectID validates a client-supplied subject id. A string that is
// not a UUID cannot name any subject, so it maps to the same not-found
// outcome as a missing row (and never reaches the database).
func parseSubjectID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrorNotFound
	}
	return parsed.String(), nil
}

// List returns all subjects of the owner in creation order, archived ones
// included; filtering archived subjects is a client concern.
func (s *SubjectService) List(ctx context.Context, userID int64) ([]*models.Subject, error) {
	repo := s.repomanager.Subjects(s.db)

	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return result, nil
}

func (s *SubjectService) Create(ctx context.Context, userID int64, params CreateSubjectParams) (*models.Subject, error) {

	err := validation.Errors{
		"name":      validation.Validate(params.Name, validation.Required),
		"part1From": validation.Validate(params.Part1From, validation.NotNil),
		"part1To":   validation.Validate(params.Part1To, validation.NotNil),
		"part2From": validation.Validate(params.Part2From, validation.NotNil),
		"part2To":   validation.Validate(params.Part2To, validation.NotNil),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	subject := &models.Subject{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           params.Name,
		Part1From:      *params.Part1From,
		Part1To:        *params.Part1To,
		Part2From:      *params.Part2From,
		Part2To:        *params.Part2To,
		Part2MaxPoints: params.Part2MaxPoints,
		Icon:           params.Icon,
		Color:          params.Color,
	}
	if subject.Part2MaxPoints == nil {
		subject.Part2MaxPoints = map[string]int{}
	}
	if subject.Icon == "" {
		subject.Icon = defaultIcon
	}
	if subject.Color == "" {
		subject.Color = defaultColor
	}

	repo := s.repomanager.Subjects(s.db)

	subject, err = repo.Create(ctx, subject)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return subject, nil
}

// SetArchived flips only the archived flag. The update filters by owner in
// the same statement, so the ownership check and the write are one atomic
// operation.
func (s *SubjectService) SetArchived(ctx context.Context, userID int64, subjectID string, archived bool) (*models.Subject, error) {

	subjectID, err := parseSubjectID(subjectID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Subjects(s.db)

	subject, err := repo.SetArchived(ctx, subjectID, userID, archived)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return subject, nil
}

// Delete removes the subject and all of its attempts in one transaction.
// The owned row is locked first, so the subject cannot change hands or
// disappear between the ownership check and the deletes.
func (s *SubjectService) Delete(ctx context.Context, userID int64, subjectID string) error {

	subjectID, err := parseSubjectID(subjectID)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Subjects(tx).LockOwnedForUpdate(ctx, subjectID, userID); err != nil {
			return err
		}
		if err := s.repomanager.Attempts(tx).DeleteBySubject(ctx, subjectID); err != nil {
			return err
		}
		return s.repomanager.Subjects(tx).Delete(ctx, subjectID)
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}
