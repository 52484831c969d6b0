package post

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/domain"
	"socialapp/internal/modules/upload"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	posts   PostRepository
	files   Files
	avatars avatarURLer
	policy  *bluemonday.Policy
	log     *zap.Logger
}

func NewService(posts PostRepository, files Files, avatars avatarURLer, log *zap.Logger) *Service {
	return &Service{
		posts:   posts,
		files:   files,
		avatars: avatars,
		policy:  bluemonday.StrictPolicy(),
		log:     log,
	}
}

// Create stores the post and then tries to attach the referenced upload.
// Whatever the attach outcome, the post itself is kept.
func (s *Service) Create(ctx context.Context, userID int64, req CreatePostRequest) (*domain.Post, error) {
	content := s.sanitize(req.Content)
	if content == "" && req.FileID == nil {
		return nil, ErrEmptyPost
	}

	p := &domain.Post{UserID: userID, Content: content}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if req.FileID != nil {
		status, err := s.files.AssociateFileToPost(ctx, *req.FileID, p.ID)
		switch {
		case err != nil:
			s.log.Error("failed to attach file to post",
				zap.Int64("post_id", p.ID), zap.Int64("file_id", *req.FileID), zap.Error(err))
		case status != upload.AttachStatusAttached:
			s.log.Info("file not attached to post",
				zap.Int64("post_id", p.ID), zap.Int64("file_id", *req.FileID), zap.Stringer("status", status))
		}
	}

	return s.Get(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	posts := []domain.Post{*p}
	if err := s.enrich(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// List pages through posts newest first; userID > 0 limits to one author.
func (s *Service) List(ctx context.Context, userID int64, page, limit int) (*ListResult, error) {
	page, limit = normalizePage(page, limit)

	posts, total, err := s.posts.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return &ListResult{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

func (s *Service) Update(ctx context.Context, actorID, id int64, req UpdatePostRequest) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.UserID != actorID {
		return nil, ErrForbidden
	}

	content := s.sanitize(req.Content)
	if content == "" {
		return nil, ErrEmptyPost
	}
	if err := s.posts.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a post on behalf of its author or an admin. The stored
// object goes first; if that fails the post is left untouched so the
// object is never orphaned. The file row, comments and likes follow the
// post through cascading foreign keys.
func (s *Service) Delete(ctx context.Context, actorID int64, actorRole domain.UserRole, id int64) error {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if p.UserID != actorID && actorRole != domain.RoleAdmin {
		return ErrForbidden
	}

	if err := s.files.DeleteForPost(ctx, id); err != nil {
		return err
	}

	n, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	s.log.Info("post deleted", zap.Int64("post_id", id), zap.Int64("actor_id", actorID))
	return nil
}

func (s *Service) enrich(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	files, err := s.files.ForPosts(ctx, ids)
	if err != nil {
		return err
	}
	likes, comments, err := s.posts.Counts(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		p := &posts[i]
		p.File = files[p.ID]
		p.LikesCount = likes[p.ID]
		p.CommentsCount = comments[p.ID]
		if p.User != nil && p.User.AvatarKey != "" {
			p.User.AvatarURL = s.avatars.URL(p.User.AvatarKey)
		}
	}
	return nil
}

func (s *Service) sanitize(content string) string {
	return strings.TrimSpace(s.policy.Sanitize(content))
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
