package reclaim

import (
	"context"
	"time"

	"socialapp/internal/domain"
)

type FileRepository interface {
	ListUnattachedBefore(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]domain.File, error)
	DeleteUnattached(ctx context.Context, id int64) (int64, error)
}

// Locker grants a cluster-wide lease so only one instance sweeps at a time.
// ok is false when another holder owns the lease.
type Locker interface {
	TryLock(ctx context.Context, ttl time.Duration) (release func(), ok bool, err error)
}
