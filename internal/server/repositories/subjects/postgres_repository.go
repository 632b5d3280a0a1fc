package subjects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, subject *models.Subject) (*models.Subject, error) {

	maxPoints, err := json.Marshal(subject.Part2MaxPoints)
	if err != nil {
		return nil, fmt.Errorf("error encoding part2 max points: %v", err)
	}

	query :=
		`INSERT INTO subjects (id, user_id, name, part1_from, part1_to, part2_from, part2_to, part2_max_points, icon, color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING archived, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		subject.ID, subject.UserID, subject.Name,
		subject.Part1From, subject.Part1To, subject.Part2From, subject.Part2To,
		maxPoints, subject.Icon, subject.Color).Scan(&subject.Archived, &subject.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return subject, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Subject, error) {
	query :=
		`SELECT id, user_id, name, part1_from, part1_to, part2_from, part2_to, part2_max_points, icon, color, archived, created_at
		 FROM subjects
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := []*models.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading sql rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) LockOwnedForUpdate(ctx context.Context, id string, userID int64) error {
	return r.lockOwned(ctx, id, userID, "FOR UPDATE")
}

func (r *PostgresRepository) LockOwnedShared(ctx context.Context, id string, userID int64) error {
	return r.lockOwned(ctx, id, userID, "FOR SHARE")
}

func (r *PostgresRepository) lockOwned(ctx context.Context, id string, userID int64, strength string) error {
	query := `SELECT id FROM subjects WHERE id = $1 AND user_id = $2 ` + strength

	var got string
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&got)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) SetArchived(ctx context.Context, id string, userID int64, archived bool) (*models.Subject, error) {
	query :=
		`UPDATE subjects SET archived = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, part1_from, part1_to, part2_from, part2_to, part2_max_points, icon, color, archived, created_at
		 `

	row := r.db.QueryRowContext(ctx, query, id, userID, archived)

	subject, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	return subject, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM subjects WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubject(row scanner) (*models.Subject, error) {
	subject := &models.Subject{}
	var maxPoints []byte

	err := row.Scan(
		&subject.ID, &subject.UserID, &subject.Name,
		&subject.Part1From, &subject.Part1To, &subject.Part2From, &subject.Part2To,
		&maxPoints, &subject.Icon, &subject.Color, &subject.Archived, &subject.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	if err := json.Unmarshal(maxPoints, &subject.Part2MaxPoints); err != nil {
		return nil, fmt.Errorf("error decoding part2 max points: %v", err)
	}

	return subject, nil
}
