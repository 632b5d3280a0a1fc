package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/dbx"
	"github.com/egetrack/egetrack/internal/logging"
	"github.com/egetrack/egetrack/internal/server/config"
	"github.com/egetrack/egetrack/internal/server/models"
	attemptsrepo "github.com/egetrack/egetrack/internal/server/repositories/attempts"
	subjectsrepo "github.com/egetrack/egetrack/internal/server/repositories/subjects"
	usersrepo "github.com/egetrack/egetrack/internal/server/repositories/users"
	"github.com/egetrack/egetrack/internal/server/services"
)

// In-memory repositories backing the full handler stack. The DBTX passed by
// the services is ignored; transaction boundaries are asserted through the
// sqlmock Begin/Commit/Rollback expectations declared per test.

type memStore struct {
	users        map[string]*models.User
	nextUserID   int64
	subjects     map[string]*models.Subject
	subjectOrder []string
	attempts     []*models.Attempt
	nextAttempt  int64
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*models.User{},
		nextUserID:  1,
		subjects:    map[string]*models.Subject{},
		nextAttempt: 1,
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := r.s.users[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = r.s.nextUserID
	r.s.nextUserID++
	u.CreatedAt = time.Now()
	r.s.users[u.Email] = u
	return u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.s.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memSubjects struct{ s *memStore }

func (r memSubjects) Create(ctx context.Context, subject *models.Subject) (*models.Subject, error) {
	subject.CreatedAt = time.Now()
	r.s.subjects[subject.ID] = subject
	r.s.subjectOrder = append(r.s.subjectOrder, subject.ID)
	return subject, nil
}

func (r memSubjects) ListByUser(ctx context.Context, userID int64) ([]*models.Subject, error) {
	result := []*models.Subject{}
	for _, id := range r.s.subjectOrder {
		if subject, ok := r.s.subjects[id]; ok && subject.UserID == userID {
			result = append(result, subject)
		}
	}
	return result, nil
}

func (r memSubjects) owned(id string, userID int64) error {
	subject, ok := r.s.subjects[id]
	if !ok || subject.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

func (r memSubjects) LockOwnedForUpdate(ctx context.Context, id string, userID int64) error {
	return r.owned(id, userID)
}

func (r memSubjects) LockOwnedShared(ctx context.Context, id string, userID int64) error {
	return r.owned(id, userID)
}

func (r memSubjects) SetArchived(ctx context.Context, id string, userID int64, archived bool) (*models.Subject, error) {
	if err := r.owned(id, userID); err != nil {
		return nil, err
	}
	r.s.subjects[id].Archived = archived
	return r.s.subjects[id], nil
}

func (r memSubjects) Delete(ctx context.Context, id string) error {
	delete(r.s.subjects, id)
	return nil
}

type memAttempts struct{ s *memStore }

func (r memAttempts) Create(ctx context.Context, attempt *models.Attempt) (*models.Attempt, error) {
	attempt.ID = r.s.nextAttempt
	r.s.nextAttempt++
	attempt.CreatedAt = time.Now()
	r.s.attempts = append(r.s.attempts, attempt)
	return attempt, nil
}

func (r memAttempts) ListBySubject(ctx context.Context, subjectID string) ([]*models.Attempt, error) {
	result := []*models.Attempt{}
	for _, attempt := range r.s.attempts {
		if attempt.SubjectID == subjectID {
			result = append(result, attempt)
		}
	}
	return result, nil
}

func (r memAttempts) DeleteBySubject(ctx context.Context, subjectID string) error {
	kept := r.s.attempts[:0]
	for _, attempt := range r.s.attempts {
		if attempt.SubjectID != subjectID {
			kept = append(kept, attempt)
		}
	}
	r.s.attempts = kept
	return nil
}

type memRepoManager struct{ s *memStore }

func (m memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m memRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return memUsers{m.s} }

func (m memRepoManager) Subjects(db dbx.DBTX) subjectsrepo.Repository { return memSubjects{m.s} }

func (m memRepoManager) Attempts(db dbx.DBTX) attemptsrepo.Repository { return memAttempts{m.s} }

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, *memStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	rm := memRepoManager{store}
	cfg := &config.Config{SecretKey: testSecret}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	server := NewServer(":0", logger,
		services.NewUserService(db, rm, cfg),
		services.NewSubjectService(db, rm),
		services.NewAttemptService(db, rm),
		testSecret,
	)

	return server, store, mock
}

// doJSON performs a request against the fiber app and decodes the JSON body
// into out (when non-nil). It returns the response for header/status checks.
func doJSON(t *testing.T, s *Server, method, target, token string, body any, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(authTokenHeader, token)
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp
}

func registerUser(t *testing.T, s *Server, email, password, name string) string {
	t.Helper()

	var out struct {
		Token string `json:"token"`
	}
	resp := doJSON(t, s, http.MethodPost, "/api/auth", "", map[string]string{
		"action": "register", "email": email, "password": password, "name": name,
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register failed with status %d", resp.StatusCode)
	}
	return out.Token
}

func createSubject(t *testing.T, s *Server, token, name string) string {
	t.Helper()

	var out struct {
		ID string `json:"id"`
	}
	resp := doJSON(t, s, http.MethodPost, "/api/subjects", token, map[string]any{
		"name": name, "part1From": 1, "part1To": 12, "part2From": 13, "part2To": 19,
		"part2MaxPoints": map[string]int{"13": 4},
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create subject failed with status %d", resp.StatusCode)
	}
	return out.ID
}
