package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/dbx"
	attemptsrepo "github.com/egetrack/egetrack/internal/server/repositories/attempts"
	subjectsrepo "github.com/egetrack/egetrack/internal/server/repositories/subjects"
	usersrepo "github.com/egetrack/egetrack/internal/server/repositories/users"

	"github.com/egetrack/egetrack/internal/server/models"
)

// --- in-memory fakes; the DBTX handed to the manager is ignored on purpose,
// transaction boundaries are asserted through sqlmock Begin/Commit/Rollback
// expectations.

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	nextID    int64
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeSubjectsRepo struct {
	subjects map[string]*models.Subject
	order    []string
	deleted  []string
}

func newFakeSubjectsRepo() *fakeSubjectsRepo {
	return &fakeSubjectsRepo{subjects: map[string]*models.Subject{}}
}

func (f *fakeSubjectsRepo) Create(ctx context.Context, s *models.Subject) (*models.Subject, error) {
	s.CreatedAt = time.Now()
	f.subjects[s.ID] = s
	f.order = append(f.order, s.ID)
	return s, nil
}

func (f *fakeSubjectsRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Subject, error) {
	result := []*models.Subject{}
	for _, id := range f.order {
		if s, ok := f.subjects[id]; ok && s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSubjectsRepo) owned(id string, userID int64) error {
	s, ok := f.subjects[id]
	if !ok || s.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

func (f *fakeSubjectsRepo) LockOwnedForUpdate(ctx context.Context, id string, userID int64) error {
	return f.owned(id, userID)
}

func (f *fakeSubjectsRepo) LockOwnedShared(ctx context.Context, id string, userID int64) error {
	return f.owned(id, userID)
}

func (f *fakeSubjectsRepo) SetArchived(ctx context.Context, id string, userID int64, archived bool) (*models.Subject, error) {
	if err := f.owned(id, userID); err != nil {
		return nil, err
	}
	f.subjects[id].Archived = archived
	return f.subjects[id], nil
}

func (f *fakeSubjectsRepo) Delete(ctx context.Context, id string) error {
	delete(f.subjects, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAttemptsRepo struct {
	attempts []*models.Attempt
	nextID   int64
	cleared  []string
}

func newFakeAttemptsRepo() *fakeAttemptsRepo {
	return &fakeAttemptsRepo{nextID: 1}
}

func (f *fakeAttemptsRepo) Create(ctx context.Context, a *models.Attempt) (*models.Attempt, error) {
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now()
	f.attempts = append(f.attempts, a)
	return a, nil
}

func (f *fakeAttemptsRepo) ListBySubject(ctx context.Context, subjectID string) ([]*models.Attempt, error) {
	result := []*models.Attempt{}
	for _, a := range f.attempts {
		if a.SubjectID == subjectID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAttemptsRepo) DeleteBySubject(ctx context.Context, subjectID string) error {
	kept := f.attempts[:0]
	for _, a := range f.attempts {
		if a.SubjectID != subjectID {
			kept = append(kept, a)
		}
	}
	f.attempts = kept
	f.cleared = append(f.cleared, subjectID)
	return nil
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	subjects *fakeSubjectsRepo
	attempts *fakeAttemptsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    newFakeUsersRepo(),
		subjects: newFakeSubjectsRepo(),
		attempts: newFakeAttemptsRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) Subjects(db dbx.DBTX) subjectsrepo.Repository { return m.subjects }

func (m *fakeRepoManager) Attempts(db dbx.DBTX) attemptsrepo.Repository { return m.attempts }
