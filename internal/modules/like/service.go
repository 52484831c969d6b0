// Package like records which users liked which posts.
package like

import (
	"context"
	"errors"

	"socialapp/internal/database"
	"socialapp/internal/domain"
)

var ErrPostNotFound = errors.New("post not found")

type LikeRepository interface {
	Create(ctx context.Context, l *domain.Like) error
	Delete(ctx context.Context, postID, userID int64) (int64, error)
	Exists(ctx context.Context, postID, userID int64) (bool, error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type PostLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Status struct {
	PostID int64 `json:"post_id"`
	Liked  bool  `json:"liked"`
	Count  int64 `json:"count"`
}

type Service struct {
	likes LikeRepository
	posts PostLookup
}

func NewService(likes LikeRepository, posts PostLookup) *Service {
	return &Service{likes: likes, posts: posts}
}

// Like is idempotent: liking twice leaves one like and no error.
func (s *Service) Like(ctx context.Context, postID, userID int64) (*Status, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	err := s.likes.Create(ctx, &domain.Like{PostID: postID, UserID: userID})
	if err != nil && !database.IsUniqueViolation(err) {
		return nil, err
	}
	return s.status(ctx, postID, true)
}

// Unlike is idempotent as well.
func (s *Service) Unlike(ctx context.Context, postID, userID int64) (*Status, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.likes.Delete(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.status(ctx, postID, false)
}

// Get reports the like count and, for userID > 0, whether that user liked it.
func (s *Service) Get(ctx context.Context, postID, userID int64) (*Status, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	liked := false
	if userID > 0 {
		var err error
		if liked, err = s.likes.Exists(ctx, postID, userID); err != nil {
			return nil, err
		}
	}
	return s.status(ctx, postID, liked)
}

func (s *Service) status(ctx context.Context, postID int64, liked bool) (*Status, error) {
	n, err := s.likes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &Status{PostID: postID, Liked: liked, Count: n}, nil
}

func (s *Service) requirePost(ctx context.Context, postID int64) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
