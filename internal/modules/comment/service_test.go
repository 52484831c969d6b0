package comment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/database"
	"socialapp/internal/domain"
	"socialapp/internal/pkg/storage"
	"socialapp/internal/repository"
)

type fixture struct {
	db      *gorm.DB
	service *Service
	author  *domain.User
	other   *domain.User
	post    *domain.Post
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	avatars, err := storage.NewDiskStore(t.TempDir(), "/static/avatars")
	require.NoError(t, err)

	f := &fixture{db: db}
	f.service = NewService(repository.NewCommentRepository(db), repository.NewPostRepository(db), avatars)

	f.author = &domain.User{Email: "a@example.com", PasswordHash: "x", Name: "Ann", AvatarKey: "ann.png"}
	f.other = &domain.User{Email: "b@example.com", PasswordHash: "x", Name: "Ben"}
	require.NoError(t, db.Create(f.author).Error)
	require.NoError(t, db.Create(f.other).Error)

	f.post = &domain.Post{UserID: f.other.ID, Content: "post"}
	require.NoError(t, db.Omit("User").Create(f.post).Error)
	return f
}

func TestCreateAndList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.service.Create(ctx, f.post.ID, f.author.ID, " <i>first</i> ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Content)
	require.NotNil(t, first.User)
	assert.Equal(t, "/static/avatars/ann.png", first.User.AvatarURL)

	_, err = f.service.Create(ctx, f.post.ID, f.other.ID, "second")
	require.NoError(t, err)

	result, err := f.service.ListByPost(ctx, f.post.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Comments, 2)
	assert.Equal(t, "first", result.Comments[0].Content)
	assert.Equal(t, "second", result.Comments[1].Content)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, 777, f.author.ID, "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.service.Create(ctx, f.post.ID, f.author.ID, "<p></p>")
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = f.service.ListByPost(ctx, 777, 1, 10)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDelete_Permissions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cm, err := f.service.Create(ctx, f.post.ID, f.author.ID, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.Delete(ctx, f.other.ID, domain.RoleUser, cm.ID), ErrForbidden)
	require.NoError(t, f.service.Delete(ctx, f.other.ID, domain.RoleAdmin, cm.ID))
	assert.ErrorIs(t, f.service.Delete(ctx, f.author.ID, domain.RoleUser, cm.ID), ErrCommentNotFound)
}
