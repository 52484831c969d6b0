package repository

import (
	"context"

	"socialapp/internal/domain"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "avatar_key", "role")
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Omit("User").Create(p).Error
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	if err := r.db.WithContext(ctx).Preload("User", authorColumns).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// List returns a page of posts, newest first. userID > 0 restricts to one author.
func (r *PostRepository) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Post, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Post{})
		if userID > 0 {
			q = q.Where("user_id = ?", userID)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []domain.Post
	err := scope().Preload("User", authorColumns).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	return r.db.WithContext(ctx).Model(&domain.Post{ID: id}).Update("content", content).Error
}

// Delete removes the post; comments, likes and the file row follow through
// ON DELETE CASCADE.
func (r *PostRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&domain.Post{}, id)
	return tx.RowsAffected, tx.Error
}

type postCount struct {
	PostID int64
	N      int64
}

// Counts returns like and comment totals per post.
func (r *PostRepository) Counts(ctx context.Context, postIDs []int64) (likes, comments map[int64]int64, err error) {
	likes = make(map[int64]int64, len(postIDs))
	comments = make(map[int64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return likes, comments, nil
	}

	var rows []postCount
	if err = r.db.WithContext(ctx).Model(&domain.Like{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		likes[row.PostID] = row.N
	}

	var commentRows []postCount
	if err = r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentRows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range commentRows {
		comments[row.PostID] = row.N
	}
	return likes, comments, nil
}
