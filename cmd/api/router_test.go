package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialapp/internal/app"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/modules/reclaim"
	"socialapp/internal/pkg/storage"
	"socialapp/internal/repository"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	cfg    *config.Config
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		AppEnv:        "test",
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		StorageDriver: config.StorageDisk,
		UploadDir:     filepath.Join(dir, "posts"),
		AvatarDir:     filepath.Join(dir, "avatars"),
		StaticURLBase: "/static",
		MaxUploadSize: 1 << 20,
		DefaultLocale: "en",

		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	posts, err := storage.NewDiskStore(cfg.UploadDir, cfg.StaticURLBase+app.PostsPath)
	require.NoError(t, err)
	avatars, err := storage.NewDiskStore(cfg.AvatarDir, cfg.StaticURLBase+app.AvatarsPath)
	require.NoError(t, err)

	sweeper := reclaim.NewSweeper(repository.NewFileRepository(db), posts, zap.NewNop(), reclaim.DefaultConfig())

	router := newRouter(deps{
		cfg:     cfg,
		db:      db,
		stores:  &app.Stores{Posts: posts, Avatars: avatars},
		sweeper: sweeper,
		log:     zap.NewNop(),
	})
	return &apiClient{t: t, router: router, cfg: cfg}
}

func (a *apiClient) json(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

func (a *apiClient) upload(token, field string, content []byte, path, method string) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "picture.txt")
	require.NoError(a.t, err)
	_, err = fw.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.send(req, token)
}

func (a *apiClient) send(req *http.Request, token string) (*httptest.ResponseRecorder, map[string]any) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (a *apiClient) register(email string) string {
	w, body := a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Tester", "email": email, "password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["data"].(map[string]any)["token"].(string)
}

func data(body map[string]any) map[string]any {
	return body["data"].(map[string]any)
}

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3))))
	return buf.Bytes()
}

func TestUploadAttachDeleteFlow(t *testing.T) {
	api := newAPI(t)
	token := api.register("flow@example.com")

	// the client-supplied ".txt" name is ignored; the content decides
	w, body := api.upload(token, "file", pngBytes(t), "/api/v1/uploads", http.MethodPost)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := data(body)
	fileID := int64(file["id"].(float64))
	filename := file["filename"].(string)
	assert.Equal(t, "image/png", file["file_type"])

	w, body = api.json(http.MethodPost, "/api/v1/posts", token, map[string]any{"content": "hello", "file_id": fileID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := data(body)
	postID := strconv.FormatInt(int64(post["id"].(float64)), 10)
	require.NotNil(t, post["file"])

	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/posts/"+filename, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.json(http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.json(http.MethodDelete, "/api/v1/posts/"+postID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err := os.Stat(filepath.Join(api.cfg.UploadDir, filename))
	assert.True(t, os.IsNotExist(err))

	w, _ = api.json(http.MethodGet, "/api/v1/uploads/"+strconv.FormatInt(fileID, 10), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	api := newAPI(t)
	token := api.register("text@example.com")

	w, body := api.upload(token, "file", []byte("plain text pretending to be a picture"), "/api/v1/uploads", http.MethodPost)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", body["error"].(map[string]any)["code"])

	entries, err := os.ReadDir(api.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_RequiresAuth(t *testing.T) {
	api := newAPI(t)

	w, _ := api.upload("", "file", pngBytes(t), "/api/v1/uploads", http.MethodPost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePost_WithUnknownFile(t *testing.T) {
	api := newAPI(t)
	token := api.register("ghost@example.com")

	w, body := api.json(http.MethodPost, "/api/v1/posts", token, map[string]any{"content": "no file", "file_id": 4242})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, data(body)["file"])
}

func TestCommentsAndLikes(t *testing.T) {
	api := newAPI(t)
	token := api.register("social@example.com")

	_, body := api.json(http.MethodPost, "/api/v1/posts", token, map[string]any{"content": "discuss"})
	postID := strconv.FormatInt(int64(data(body)["id"].(float64)), 10)

	w, _ := api.json(http.MethodPost, "/api/v1/posts/"+postID+"/comments", token, map[string]any{"content": "first!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body = api.json(http.MethodPost, "/api/v1/posts/"+postID+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, data(body)["liked"])

	w, body = api.json(http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), data(body)["likes_count"])
	assert.Equal(t, float64(1), data(body)["comments_count"])
}

func TestLoginAndMe(t *testing.T) {
	api := newAPI(t)
	api.register("me@example.com")

	w, body := api.json(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "me@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := data(body)["token"].(string)

	w, body = api.json(http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "me@example.com", data(body)["email"])

	w, _ = api.json(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "me@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLocalizedErrors(t *testing.T) {
	api := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/999", nil)
	req.Header.Set("Accept-Language", "ru")
	w, body := api.send(req, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Публикация не найдена", body["error"].(map[string]any)["message"])
}
