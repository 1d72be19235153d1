package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/logging"
	"github.com/dmitrijs2005/projecthub/internal/metrics"
	"github.com/dmitrijs2005/projecthub/internal/server/repositories/revocations"
)

// RevocationJanitor periodically removes revocation entries whose tokens
// have expired.
type RevocationJanitor struct {
	repo     revocations.Repository
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      logging.Logger
	now      func() time.Time
}

func NewRevocationJanitor(repo revocations.Repository, interval, timeout time.Duration, m *metrics.Metrics, l logging.Logger) *RevocationJanitor {
	if l == nil {
		l = logging.NewDiscard()
	}
	return &RevocationJanitor{
		repo:     repo,
		interval: interval,
		timeout:  timeout,
		metrics:  m,
		log:      l,
		now:      time.Now,
	}
}

// Run purges once per interval until ctx is done. A non-positive interval
// disables the janitor.
func (j *RevocationJanitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.PurgeOnce(ctx); err != nil && ctx.Err() == nil {
				j.log.Warn(ctx, "revocation purge failed", "error", err)
			}
		}
	}
}

func (j *RevocationJanitor) PurgeOnce(ctx context.Context) (int64, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	n, err := j.repo.Purge(ctx, j.now())
	if err != nil {
		return 0, err
	}
	j.metrics.Purged(n)
	if n > 0 {
		j.log.Debug(ctx, "revocations purged", "count", n)
	}
	return n, nil
}
