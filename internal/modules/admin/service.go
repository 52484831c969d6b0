package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/domain"
	"socialapp/internal/modules/reclaim"
)

type Service struct {
	users    UserRepository
	posts    ContentDeleter
	comments ContentDeleter
	files    FileCounter
	sweeper  Sweeper
	log      *zap.Logger
	now      func() time.Time
}

func NewService(
	users UserRepository,
	posts ContentDeleter,
	comments ContentDeleter,
	files FileCounter,
	sweeper Sweeper,
	log *zap.Logger,
) *Service {
	return &Service{
		users:    users,
		posts:    posts,
		comments: comments,
		files:    files,
		sweeper:  sweeper,
		log:      log,
		now:      time.Now,
	}
}

// -------------------- Users --------------------

func (s *Service) ListUsers(ctx context.Context, page, limit int) (*UserList, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return &UserList{Users: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) Ban(ctx context.Context, actorID, userID int64, reason string) (*domain.User, error) {
	if actorID == userID {
		return nil, ErrCannotBanSelf
	}
	n, err := s.users.SetBanned(ctx, userID, true, strings.TrimSpace(reason), s.now().UTC())
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	s.log.Info("user banned", zap.Int64("user_id", userID), zap.Int64("admin_id", actorID))
	return s.getUser(ctx, userID)
}

func (s *Service) Unban(ctx context.Context, actorID, userID int64) (*domain.User, error) {
	n, err := s.users.SetBanned(ctx, userID, false, "", time.Time{})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	s.log.Info("user unbanned", zap.Int64("user_id", userID), zap.Int64("admin_id", actorID))
	return s.getUser(ctx, userID)
}

func (s *Service) SetRole(ctx context.Context, actorID, userID int64, role string) (*domain.User, error) {
	r := domain.UserRole(role)
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	n, err := s.users.SetRole(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}
	s.log.Info("user role changed", zap.Int64("user_id", userID), zap.String("role", role), zap.Int64("admin_id", actorID))
	return s.getUser(ctx, userID)
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// -------------------- Content --------------------

func (s *Service) DeletePost(ctx context.Context, actorID, postID int64) error {
	return s.posts.Delete(ctx, actorID, domain.RoleAdmin, postID)
}

func (s *Service) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	return s.comments.Delete(ctx, actorID, domain.RoleAdmin, commentID)
}

// -------------------- Files --------------------

func (s *Service) FileStats(ctx context.Context) (*FileStats, error) {
	n, err := s.files.CountUnattached(ctx)
	if err != nil {
		return nil, err
	}
	return &FileStats{Unattached: n}, nil
}

// Sweep runs a reclamation pass now. A pass already in progress makes this
// one return immediately with Skipped set.
func (s *Service) Sweep(ctx context.Context, actorID int64) reclaim.Stats {
	s.log.Info("manual sweep requested", zap.Int64("admin_id", actorID))
	return s.sweeper.RunOnce(ctx)
}
