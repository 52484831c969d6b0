package auth

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialapp/internal/domain"
	"socialapp/internal/modules/upload"
	"socialapp/internal/pkg/storage"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, name, bio string) error {
	return m.Called(ctx, id, name, bio).Error(0)
}

func (m *mockUserRepo) SetAvatarKey(ctx context.Context, id int64, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

type stubTokens struct{}

func (stubTokens) GenerateToken(userID int64, role string) (string, error) {
	return "token-" + role, nil
}

func newTestService(t *testing.T, repo *mockUserRepo) (*Service, string) {
	root := t.TempDir()
	avatars, err := storage.NewDiskStore(root, "/static/avatars")
	require.NoError(t, err)
	return NewService(repo, stubTokens{}, avatars, zap.NewNop(), 1<<20), root
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == domain.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 10
	}).Return(nil)

	result, err := svc.Register(ctx, RegisterRequest{Name: " Ann ", Email: " New@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.User.ID)
	assert.Equal(t, "Ann", result.User.Name)
	assert.Equal(t, "token-user", result.Token)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "taken@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "race@example.com").Return(false, nil)
	repo.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "race@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 3, Email: "a@example.com", PasswordHash: hashed(t, "secret-pass"), Role: domain.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(t, repo)
		repo.On("GetByEmail", ctx, "a@example.com").Return(user, nil)

		result, err := svc.Login(ctx, LoginRequest{Email: "A@example.com", Password: "secret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "token-admin", result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(t, repo)
		repo.On("GetByEmail", ctx, "a@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(t, repo)
		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("banned", func(t *testing.T) {
		banned := *user
		banned.IsBanned = true
		repo := new(mockUserRepo)
		svc, _ := newTestService(t, repo)
		repo.On("GetByEmail", ctx, "a@example.com").Return(&banned, nil)

		_, err := svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "secret-pass"})
		assert.ErrorIs(t, err, ErrUserBanned)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc, _ := newTestService(t, repo)
		repo.On("GetByEmail", ctx, "a@example.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "secret-pass"})
		assert.EqualError(t, err, "db down")
	})
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(4)).Return(&domain.User{ID: 4, Name: "Old", Bio: "keep"}, nil)
	repo.On("UpdateProfile", ctx, int64(4), "New", "keep").Return(nil)

	name := " New "
	user, err := svc.UpdateProfile(ctx, 4, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", user.Name)
	repo.AssertExpectations(t)
}

func TestGetPublicProfile_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc, _ := newTestService(t, repo)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetPublicProfile(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	repo := new(mockUserRepo)
	svc, root := newTestService(t, repo)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(root, "old.png"), []byte("old"), 0o644))
	repo.On("GetByID", ctx, int64(5)).Return(&domain.User{ID: 5, AvatarKey: "old.png"}, nil)
	repo.On("SetAvatarKey", ctx, int64(5), mock.AnythingOfType("string")).Return(nil)

	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, image.NewRGBA(image.Rect(0, 0, 640, 480))))

	user, err := svc.UpdateAvatar(ctx, 5, &src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(user.AvatarKey, ".png"))
	assert.Equal(t, "/static/avatars/"+user.AvatarKey, user.AvatarURL)

	img, err := imaging.Open(filepath.Join(root, user.AvatarKey))
	require.NoError(t, err)
	assert.Equal(t, avatarSize, img.Bounds().Dx())
	assert.Equal(t, avatarSize, img.Bounds().Dy())

	_, err = os.Stat(filepath.Join(root, "old.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateAvatar_RejectsText(t *testing.T) {
	repo := new(mockUserRepo)
	svc, root := newTestService(t, repo)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)

	_, err := svc.UpdateAvatar(context.Background(), 5, strings.NewReader("hello world"))
	assert.ErrorIs(t, err, upload.ErrUnsupportedType)

	entries, _ := os.ReadDir(root)
	assert.Empty(t, entries)
	repo.AssertNotCalled(t, "SetAvatarKey", mock.Anything, mock.Anything, mock.Anything)
}
