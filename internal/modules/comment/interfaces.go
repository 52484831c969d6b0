package comment

import (
	"context"

	"socialapp/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, cm *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type PostLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type avatarURLer interface {
	URL(key string) string
}
