package repository

import (
	"context"
	"strings"
	"time"

	"socialapp/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, bio string) error {
	return r.db.WithContext(ctx).Model(&domain.User{ID: id}).
		Updates(map[string]any{"name": name, "bio": bio}).Error
}

func (r *UserRepository) SetAvatarKey(ctx context.Context, id int64, key string) error {
	return r.db.WithContext(ctx).Model(&domain.User{ID: id}).Update("avatar_key", key).Error
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role domain.UserRole) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	return tx.RowsAffected, tx.Error
}

func (r *UserRepository) SetBanned(ctx context.Context, id int64, banned bool, reason string, at time.Time) (int64, error) {
	updates := map[string]any{"is_banned": banned, "ban_reason": reason, "banned_at": nil}
	if banned {
		updates["banned_at"] = at
	} else {
		updates["ban_reason"] = ""
	}
	tx := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := r.db.WithContext(ctx).Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) IsBanned(ctx context.Context, id int64) (bool, error) {
	var banned []bool
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("is_banned", &banned).Error
	if err != nil {
		return false, err
	}
	// a deleted account is treated like a banned one
	return len(banned) == 0 || banned[0], nil
}
