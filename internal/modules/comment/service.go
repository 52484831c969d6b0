package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"socialapp/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ListResult struct {
	Comments []domain.Comment `json:"comments"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

type Service struct {
	comments CommentRepository
	posts    PostLookup
	avatars  avatarURLer
	policy   *bluemonday.Policy
}

func NewService(comments CommentRepository, posts PostLookup, avatars avatarURLer) *Service {
	return &Service{
		comments: comments,
		posts:    posts,
		avatars:  avatars,
		policy:   bluemonday.StrictPolicy(),
	}
}

func (s *Service) Create(ctx context.Context, postID, userID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(s.policy.Sanitize(content))
	if content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	cm := &domain.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.comments.Create(ctx, cm); err != nil {
		return nil, err
	}
	return s.get(ctx, cm.ID)
}

// ListByPost returns comments oldest first.
func (s *Service) ListByPost(ctx context.Context, postID int64, page, limit int) (*ListResult, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	comments, total, err := s.comments.ListByPost(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	for i := range comments {
		s.withAvatar(&comments[i])
	}
	return &ListResult{Comments: comments, Total: total, Page: page, Limit: limit}, nil
}

// Delete lets the author or an admin remove a comment.
func (s *Service) Delete(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64) error {
	cm, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if cm.UserID != actorID && actorRole != domain.RoleAdmin {
		return ErrForbidden
	}
	n, err := s.comments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Comment, error) {
	cm, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	s.withAvatar(cm)
	return cm, nil
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

func (s *Service) withAvatar(cm *domain.Comment) {
	if cm.User != nil && cm.User.AvatarKey != "" {
		cm.User.AvatarURL = s.avatars.URL(cm.User.AvatarKey)
	}
}
