package repository

import (
	"context"

	"socialapp/internal/domain"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, cm *domain.Comment) error {
	return r.db.WithContext(ctx).Omit("User", "Post").Create(cm).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var cm domain.Comment
	if err := r.db.WithContext(ctx).Preload("User", authorColumns).First(&cm, id).Error; err != nil {
		return nil, err
	}
	return &cm, nil
}

// ListByPost returns comments oldest first.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]domain.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []domain.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Preload("User", authorColumns).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, total, err
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&domain.Comment{}, id)
	return tx.RowsAffected, tx.Error
}
