package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/database"
	"socialapp/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestFileRepository_AttachToPostRequiresUploader(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	files := NewFileRepository(db)

	alice := &domain.User{Email: "alice@example.com", PasswordHash: "x", Name: "Alice"}
	bob := &domain.User{Email: "bob@example.com", PasswordHash: "x", Name: "Bob"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	f := &domain.File{Filename: "a.png", FileType: "image/png", UploadDate: time.Now().UTC(), UploaderID: alice.ID}
	require.NoError(t, files.Create(ctx, f))

	bobsPost := &domain.Post{UserID: bob.ID, Content: "b"}
	alicesPost := &domain.Post{UserID: alice.ID, Content: "a"}
	require.NoError(t, posts.Create(ctx, bobsPost))
	require.NoError(t, posts.Create(ctx, alicesPost))

	n, err := files.AttachToPost(ctx, f.ID, bobsPost.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = files.AttachToPost(ctx, f.ID, 9999)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = files.AttachToPost(ctx, f.ID, alicesPost.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := files.GetByID(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PostID)
	assert.Equal(t, alicesPost.ID, *got.PostID)
}

func TestUserRepository_UnbanClearsBanFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	u := &domain.User{Email: "carol@example.com", PasswordHash: "x", Name: "Carol"}
	require.NoError(t, users.Create(ctx, u))

	_, err := users.SetBanned(ctx, u.ID, true, "spam", time.Now().UTC())
	require.NoError(t, err)
	_, err = users.SetBanned(ctx, u.ID, false, "", time.Now().UTC())
	require.NoError(t, err)

	after, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, after.IsBanned)
	assert.Nil(t, after.BannedAt)
	assert.Empty(t, after.BanReason)
}
