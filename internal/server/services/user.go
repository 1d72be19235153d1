package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/metrics"
	"github.com/dmitrijs2005/projecthub/internal/server/auth"
	"github.com/dmitrijs2005/projecthub/internal/server/models"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/projecthub/internal/server/validation"
)

type TokenIssuer interface {
	Issue(userID string) (*auth.IssuedToken, error)
}

// AuthResult is returned by Register and Login. Token is empty when
// registration runs without auto-login.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// UserService implements the registration, login and logout use cases:
//   - Register: create the user and, with auto-login, issue a token
//   - Login: verify credentials and issue a token
//   - Logout: revoke the token of an authenticated session
type UserService struct {
	credentials  *CredentialStore
	issuer       TokenIssuer
	revocations  revocations.Repository
	autoLogin    bool
	storeTimeout time.Duration
	metrics      *metrics.Metrics
	log          logging.Logger
	now          func() time.Time
}

type UserServiceOption func(*UserService)

func WithAutoLogin(enabled bool) UserServiceOption {
	return func(s *UserService) { s.autoLogin = enabled }
}

func WithMetrics(m *metrics.Metrics) UserServiceOption {
	return func(s *UserService) { s.metrics = m }
}

func WithLogger(l logging.Logger) UserServiceOption {
	return func(s *UserService) { s.log = l }
}

func WithStoreTimeout(d time.Duration) UserServiceOption {
	return func(s *UserService) { s.storeTimeout = d }
}

func NewUserService(creds *CredentialStore, issuer TokenIssuer, revs revocations.Repository, opts ...UserServiceOption) *UserService {
	s := &UserService{
		credentials: creds,
		issuer:      issuer,
		revocations: revs,
		autoLogin:   true,
		log:         logging.NewDiscard(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) Register(ctx context.Context, in validation.RegisterInput) (*AuthResult, error) {
	u, err := s.credentials.CreateUser(ctx, in.Email(), in.Password(), in.FullName())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEmail):
			s.metrics.Registration(metrics.ResultDuplicate)
		case errors.Is(err, common.ErrStoreUnavailable):
			s.metrics.Registration(metrics.ResultUnavailable)
		default:
			s.metrics.Registration(metrics.ResultError)
		}
		return nil, err
	}

	s.metrics.Registration(metrics.ResultSuccess)
	s.log.Info(ctx, "user registered", "user_id", u.ID)

	if !s.autoLogin {
		return &AuthResult{User: u}, nil
	}
	return s.issueFor(u)
}

func (s *UserService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	u, err := s.credentials.VerifyCredentials(ctx, in.Email(), in.Password())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			s.metrics.Login(metrics.ResultInvalid)
		case errors.Is(err, common.ErrStoreUnavailable):
			s.metrics.Login(metrics.ResultUnavailable)
		default:
			s.metrics.Login(metrics.ResultError)
		}
		return nil, err
	}

	s.metrics.Login(metrics.ResultSuccess)
	return s.issueFor(u)
}

// Logout revokes the session's token. Revoking a token twice is not an
// error.
func (s *UserService) Logout(ctx context.Context, session *auth.Session) error {
	if session == nil || session.TokenID == "" {
		return common.ErrUnauthenticated
	}

	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	err := s.revocations.Revoke(ctx, models.RevokedToken{
		TokenID:   session.TokenID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	s.metrics.Revoked()
	s.log.Info(ctx, "session revoked", "user_id", session.UserID, "token_id", session.TokenID)
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.credentials.FindByID(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.credentials.List(ctx)
}

func (s *UserService) issueFor(u *models.User) (*AuthResult, error) {
	tok, err := s.issuer.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: tok.Token, ExpiresAt: tok.ExpiresAt}, nil
}
