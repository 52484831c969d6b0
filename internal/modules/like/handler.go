package like

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialapp/internal/middleware"
	"socialapp/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/posts/:id/likes", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/posts/:id/like", h.Like)
	protected.DELETE("/posts/:id/like", h.Unlike)
}

func (h *Handler) Like(c *gin.Context) {
	h.respond(c, func(postID, userID int64) (*Status, error) {
		return h.service.Like(c.Request.Context(), postID, userID)
	})
}

func (h *Handler) Unlike(c *gin.Context) {
	h.respond(c, func(postID, userID int64) (*Status, error) {
		return h.service.Unlike(c.Request.Context(), postID, userID)
	})
}

func (h *Handler) Get(c *gin.Context) {
	h.respond(c, func(postID, userID int64) (*Status, error) {
		return h.service.Get(c.Request.Context(), postID, userID)
	})
}

func (h *Handler) respond(c *gin.Context, fn func(postID, userID int64) (*Status, error)) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || postID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	status, err := fn(postID, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			response.Error(c, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, status)
}
