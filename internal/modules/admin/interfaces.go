package admin

import (
	"context"
	"time"

	"socialapp/internal/domain"
	"socialapp/internal/modules/reclaim"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	SetBanned(ctx context.Context, id int64, banned bool, reason string, at time.Time) (int64, error)
	SetRole(ctx context.Context, id int64, role domain.UserRole) (int64, error)
}

// ContentDeleter removes a post or comment on behalf of an actor.
type ContentDeleter interface {
	Delete(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64) error
}

type FileCounter interface {
	CountUnattached(ctx context.Context) (int64, error)
}

type Sweeper interface {
	RunOnce(ctx context.Context) reclaim.Stats
}
