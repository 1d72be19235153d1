// Package services contains server-side business logic: the credential
// store over the users repository, the registration/login/logout use cases
// and the revocation janitor.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/users"
)

// Hasher hashes and verifies passwords. cryptox.PasswordHasher implements it.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// dummyPassword is hashed once at startup; unknown emails are verified
// against it so they cost as much as a wrong password.
const dummyPassword = "projecthub-dummy-password"

// CredentialStore owns user accounts and password checks.
type CredentialStore struct {
	users     users.Repository
	hasher    Hasher
	timeout   time.Duration
	dummyHash string
}

func NewCredentialStore(repo users.Repository, hasher Hasher, timeout time.Duration) (*CredentialStore, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	return &CredentialStore{
		users:     repo,
		hasher:    hasher,
		timeout:   timeout,
		dummyHash: dummy,
	}, nil
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *CredentialStore) CreateUser(ctx context.Context, email, password, fullName string) (*models.User, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.Create(ctx, &models.User{
		Email:        NormalizeEmail(email),
		PasswordHash: digest,
		FullName:     fullName,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return u, nil
}

func (s *CredentialStore) List(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return list, nil
}

// VerifyCredentials returns the user owning email if password matches.
// Unknown email and wrong password both yield common.ErrInvalidCredentials.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %s: %w", u.ID, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	return u, nil
}

func (s *CredentialStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// storeError passes domain errors through and marks everything else as an
// infrastructure failure.
func storeError(err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrDuplicateEmail) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
}
