package upload

import (
	"context"

	"socialapp/internal/domain"
)

// FileRepository is the subset of repository.FileRepository used here.
type FileRepository interface {
	Create(ctx context.Context, f *domain.File) error
	GetByID(ctx context.Context, id int64) (*domain.File, error)
	GetByPostID(ctx context.Context, postID int64) (*domain.File, error)
	ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64]*domain.File, error)
	AttachToPost(ctx context.Context, fileID, postID int64) (int64, error)
}
