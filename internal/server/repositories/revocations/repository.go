// Package revocations stores the identifiers of logged-out session tokens.
//
// An entry only has to outlive the token it names: once the token's own
// expiry has passed the gate rejects it regardless, so implementations may
// forget entries after ExpiresAt.
package revocations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/server/models"
)

type Repository interface {
	// Revoke records the token as revoked. Revoking an already revoked
	// token succeeds.
	Revoke(ctx context.Context, token models.RevokedToken) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Purge drops entries whose token expired before now and reports how
	// many were removed.
	Purge(ctx context.Context, now time.Time) (int64, error)
}
