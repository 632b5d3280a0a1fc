package attempts

import (
	"context"
	"fmt"

	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attempt *models.Attempt) (*models.Attempt, error) {

	query :=
		`INSERT INTO task_attempts (subject_id, task_number, status, points, max_points, attempt_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attempt.SubjectID, attempt.TaskNumber, attempt.Status,
		attempt.Points, attempt.MaxPoints, attempt.AttemptDate).Scan(&attempt.ID, &attempt.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return attempt, nil
}

func (r *PostgresRepository) ListBySubject(ctx context.Context, subjectID string) ([]*models.Attempt, error) {
	query :=
		`SELECT id, subject_id, task_number, status, points, max_points, attempt_date, created_at
		 FROM task_attempts
		 WHERE subject_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := []*models.Attempt{}
	for rows.Next() {
		attempt := &models.Attempt{}
		err := rows.Scan(
			&attempt.ID, &attempt.SubjectID, &attempt.TaskNumber, &attempt.Status,
			&attempt.Points, &attempt.MaxPoints, &attempt.AttemptDate, &attempt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error performing sql request: %v", err)
		}
		result = append(result, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading sql rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteBySubject(ctx context.Context, subjectID string) error {
	query := `DELETE FROM task_attempts WHERE subject_id = $1`

	if _, err := r.db.ExecContext(ctx, query, subjectID); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
