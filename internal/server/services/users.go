// Package services implements the application logic on top of the
// repositories: registration and login, subject bookkeeping and attempt
// recording. Services own the *sql.DB handle and decide which operations
// need a transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"

	"github.com/egetrack/egetrack/internal/common"
	"github.com/egetrack/egetrack/internal/server/auth"
	"github.com/egetrack/egetrack/internal/server/config"
	"github.com/egetrack/egetrack/internal/server/models"
	"github.com/egetrack/egetrack/internal/server/repositories/repomanager"
)

// dummyHash is a valid bcrypt digest compared against when login hits an
// unknown email, so response timing does not reveal whether the account
// exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthResult is the outcome of a successful registration or login.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		secret:      []byte(cfg.SecretKey),
	}
}

// NormalizeEmail brings a client-supplied email to its canonical form.
// The same normalization is applied on registration and login, so the
// unique index on users.email is effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {

	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
		"name":     validation.Validate(name, validation.Required),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return &AuthResult{User: user, Token: auth.Issue(user.ID, user.Email, s.secret)}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	email = NormalizeEmail(email)

	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a compare so unknown emails cost the same as bad passwords
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return &AuthResult{User: user, Token: auth.Issue(user.ID, user.Email, s.secret)}, nil
}
