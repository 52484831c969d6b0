package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialapp/internal/domain"
	"socialapp/internal/modules/upload"
)

const avatarSize = 256

// UpdateAvatar crops the image to a square thumbnail, stores it and drops
// the previous avatar object.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, r io.Reader) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxAvatarSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	if int64(len(data)) > s.maxAvatarSize {
		return nil, upload.ErrFileTooLarge
	}

	mimeType, ext, err := upload.DetectImageType(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, upload.ErrUnsupportedType
	}
	thumb := imaging.Fill(img, avatarSize, avatarSize, imaging.Center, imaging.Lanczos)

	format := imaging.JPEG
	if mimeType == "image/png" {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	key := uuid.NewString() + ext
	if err := s.avatars.Save(ctx, key, &buf, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.users.SetAvatarKey(ctx, user.ID, key); err != nil {
		if delErr := s.avatars.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.Error("failed to roll back avatar", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	if old := user.AvatarKey; old != "" {
		if err := s.avatars.Delete(ctx, old); err != nil {
			s.log.Warn("failed to delete previous avatar", zap.Int64("user_id", user.ID), zap.String("key", old), zap.Error(err))
		}
	}

	user.AvatarKey = key
	s.withAvatarURL(user)
	return user, nil
}
