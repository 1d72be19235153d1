package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/metrics"
)

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Gate decides whether a bearer token identifies a live session. It holds
// no state of its own and is safe for concurrent use.
type Gate struct {
	verifier     TokenVerifier
	revocations  RevocationChecker
	storeTimeout time.Duration
	metrics      *metrics.Metrics
	log          logging.Logger
}

type GateOption func(*Gate)

func WithStoreTimeout(d time.Duration) GateOption {
	return func(g *Gate) { g.storeTimeout = d }
}

func WithGateMetrics(m *metrics.Metrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

func WithGateLogger(l logging.Logger) GateOption {
	return func(g *Gate) { g.log = l }
}

func NewGate(verifier TokenVerifier, revocations RevocationChecker, opts ...GateOption) *Gate {
	g := &Gate{
		verifier:    verifier,
		revocations: revocations,
		log:         logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate returns the session for token. Every rejection wraps
// common.ErrUnauthenticated, with the concrete reason attached for logs.
// A failing revocation store yields common.ErrStoreUnavailable instead.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		g.metrics.GateDecision(metrics.ResultRejected)
		return nil, common.ErrUnauthenticated
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		g.metrics.GateDecision(metrics.ResultRejected)
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	checkCtx := ctx
	if g.storeTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, g.storeTimeout)
		defer cancel()
	}

	revoked, err := g.revocations.IsRevoked(checkCtx, claims.ID)
	if err != nil {
		g.metrics.GateDecision(metrics.ResultUnavailable)
		g.log.Error(ctx, "revocation lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	if revoked {
		g.metrics.GateDecision(metrics.ResultRevoked)
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, common.ErrTokenRevoked)
	}

	g.metrics.GateDecision(metrics.ResultSuccess)

	s := &Session{
		UserID:  claims.Subject,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Reason extracts the token-level cause from a gate error for logging.
func Reason(err error) string {
	for _, r := range []error{
		common.ErrTokenRevoked,
		common.ErrTokenExpired,
		common.ErrTokenBadSignature,
		common.ErrTokenMalformed,
	} {
		if errors.Is(err, r) {
			return r.Error()
		}
	}
	if errors.Is(err, common.ErrUnauthenticated) {
		return "missing token"
	}
	return "unknown"
}
