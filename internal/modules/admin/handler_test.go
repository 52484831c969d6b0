package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/database"
	"socialapp/internal/domain"
	"socialapp/internal/middleware"
	"socialapp/internal/modules/comment"
	"socialapp/internal/modules/post"
	"socialapp/internal/modules/reclaim"
	"socialapp/internal/modules/upload"
	"socialapp/internal/pkg/jwt"
	"socialapp/internal/pkg/storage"
	"socialapp/internal/repository"
)

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
	tokens *jwt.Service
	admin  *domain.User
	user   *domain.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := storage.NewDiskStore(t.TempDir(), "/static/posts")
	require.NoError(t, err)

	files := repository.NewFileRepository(db)
	posts := repository.NewPostRepository(db)
	users := repository.NewUserRepository(db)

	uploads := upload.NewService(files, store, zap.NewNop(), 0)
	postSvc := post.NewService(posts, uploads, store, zap.NewNop())
	commentSvc := comment.NewService(repository.NewCommentRepository(db), posts, store)
	sweeper := reclaim.NewSweeper(files, store, zap.NewNop(), reclaim.DefaultConfig())

	svc := NewService(users, postSvc, commentSvc, files, sweeper, zap.NewNop())

	s := &testServer{db: db, tokens: jwt.New("secret", time.Hour)}
	s.admin = &domain.User{Email: "root@example.com", PasswordHash: "x", Name: "Root", Role: domain.RoleAdmin}
	s.user = &domain.User{Email: "joe@example.com", PasswordHash: "x", Name: "Joe", Role: domain.RoleUser}
	require.NoError(t, db.Create(s.admin).Error)
	require.NoError(t, db.Create(s.user).Error)

	s.router = gin.New()
	group := s.router.Group("/admin", middleware.JWTAuth(s.tokens), middleware.AdminOnly())
	NewHandler(svc).RegisterRoutes(group)
	return s
}

func (s *testServer) do(t *testing.T, as *domain.User, method, path, body string) *httptest.ResponseRecorder {
	token, err := s.tokens.GenerateToken(as.ID, string(as.Role))
	require.NoError(t, err)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func withID(format string, id int64) string {
	return strings.Replace(format, ":id", strconv.FormatInt(id, 10), 1)
}

func TestBanAndUnban(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.admin, http.MethodPatch, withID("/admin/users/:id/ban", s.user.ID), `{"reason":"spam"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u domain.User
	require.NoError(t, s.db.First(&u, s.user.ID).Error)
	assert.True(t, u.IsBanned)
	assert.Equal(t, "spam", u.BanReason)
	assert.NotNil(t, u.BannedAt)

	w = s.do(t, s.admin, http.MethodPatch, withID("/admin/users/:id/unban", s.user.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var after domain.User
	require.NoError(t, s.db.First(&after, s.user.ID).Error)
	assert.False(t, after.IsBanned)
	assert.Nil(t, after.BannedAt)
	assert.Empty(t, after.BanReason)
}

func TestBan_Self(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.admin, http.MethodPatch, withID("/admin/users/:id/ban", s.admin.ID), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CANNOT_BAN_SELF")
}

func TestBan_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.admin, http.MethodPatch, "/admin/users/999/ban", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetRole(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.admin, http.MethodPatch, withID("/admin/users/:id/role", s.user.ID), `{"role":"superuser"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, s.admin, http.MethodPatch, withID("/admin/users/:id/role", s.user.ID), `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestNonAdminRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.user, http.MethodGet, "/admin/users", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, s.admin, http.MethodGet, "/admin/users?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data UserList `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Total)
	assert.Len(t, body.Data.Users, 1)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestDeletePost(t *testing.T) {
	s := newTestServer(t)
	p := &domain.Post{UserID: s.user.ID, Content: "rule breaking"}
	require.NoError(t, s.db.Omit("User").Create(p).Error)

	w := s.do(t, s.admin, http.MethodDelete, withID("/admin/posts/:id", p.ID), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, s.admin, http.MethodDelete, withID("/admin/posts/:id", p.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSweepAndFileStats(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.db.Create(&domain.File{
		Filename:   "old.png",
		FileType:   "image/png",
		UploadDate: time.Now().UTC().Add(-48 * time.Hour),
	}).Error)

	w := s.do(t, s.admin, http.MethodGet, "/admin/files/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unattached":1`)

	w = s.do(t, s.admin, http.MethodPost, "/admin/files/sweep", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reclaimed":1`)

	w = s.do(t, s.admin, http.MethodGet, "/admin/files/stats", "")
	assert.Contains(t, w.Body.String(), `"unattached":0`)
}
