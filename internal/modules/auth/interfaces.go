package auth

import (
	"context"

	"socialapp/internal/domain"
)

// UserRepository is the subset of the user store auth depends on.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, name, bio string) error
	SetAvatarKey(ctx context.Context, id int64, key string) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
