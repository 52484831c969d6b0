package repository

import (
	"context"

	"socialapp/internal/domain"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, l *domain.Like) error {
	return r.db.WithContext(ctx).Omit("User", "Post").Create(l).Error
}

func (r *LikeRepository) Delete(ctx context.Context, postID, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&domain.Like{})
	return tx.RowsAffected, tx.Error
}

func (r *LikeRepository) Exists(ctx context.Context, postID, userID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *LikeRepository) Count(ctx context.Context, postID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
