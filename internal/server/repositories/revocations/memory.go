package revocations

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/server/models"
)

// MemoryRepository is a process-local revocation list. Entries are never
// evicted before Purge, so a revocation cannot be lost under memory
// pressure.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]models.RevokedToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]models.RevokedToken)}
}

func (r *MemoryRepository) Revoke(ctx context.Context, token models.RevokedToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[token.TokenID]; !ok {
		r.entries[token.TokenID] = token
	}
	return nil
}

func (r *MemoryRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[tokenID]
	return ok, nil
}

func (r *MemoryRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.entries {
		if e.ExpiresAt.Before(now) {
			delete(r.entries, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
