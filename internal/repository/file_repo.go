package repository

import (
	"context"
	"time"

	"socialapp/internal/domain"

	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *domain.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*domain.File, error) {
	var f domain.File
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepository) GetByPostID(ctx context.Context, postID int64) (*domain.File, error) {
	var f domain.File
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByPostIDs returns the attached files of the given posts keyed by post id.
func (r *FileRepository) ListByPostIDs(ctx context.Context, postIDs []int64) (map[int64]*domain.File, error) {
	out := make(map[int64]*domain.File, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var files []domain.File
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&files).Error; err != nil {
		return nil, err
	}
	for i := range files {
		out[*files[i].PostID] = &files[i]
	}
	return out, nil
}

// AttachToPost sets post_id only while the file is still unattached and was
// uploaded by the post's author. It reports how many rows changed (0 or 1).
func (r *FileRepository) AttachToPost(ctx context.Context, fileID, postID int64) (int64, error) {
	author := r.db.Model(&domain.Post{}).Select("user_id").Where("id = ?", postID)
	tx := r.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("id = ? AND post_id IS NULL AND uploader_id = (?)", fileID, author).
		Update("post_id", postID)
	return tx.RowsAffected, tx.Error
}

// ListUnattachedBefore pages through unattached files uploaded strictly
// before cutoff, ordered by id and starting after afterID.
func (r *FileRepository) ListUnattachedBefore(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("post_id IS NULL AND upload_date < ? AND id > ?", cutoff, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&files).Error
	return files, err
}

// DeleteUnattached removes the row unless a post claimed it in the meantime.
func (r *FileRepository) DeleteUnattached(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND post_id IS NULL", id).
		Delete(&domain.File{})
	return tx.RowsAffected, tx.Error
}

func (r *FileRepository) CountUnattached(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.File{}).Where("post_id IS NULL").Count(&n).Error
	return n, err
}
