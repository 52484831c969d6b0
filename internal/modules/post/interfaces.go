package post

import (
	"context"

	"socialapp/internal/domain"
	"socialapp/internal/modules/upload"
)

type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]domain.Post, int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) (int64, error)
	Counts(ctx context.Context, postIDs []int64) (likes, comments map[int64]int64, err error)
}

// Files is the part of the upload service posts rely on.
type Files interface {
	AssociateFileToPost(ctx context.Context, fileID, postID int64) (upload.AttachStatus, error)
	ForPosts(ctx context.Context, postIDs []int64) (map[int64]*domain.File, error)
	DeleteForPost(ctx context.Context, postID int64) error
}

type avatarURLer interface {
	URL(key string) string
}
