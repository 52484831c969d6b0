package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialapp/internal/middleware"
	"socialapp/internal/modules/comment"
	"socialapp/internal/modules/post"
	"socialapp/internal/pkg/response"
	"socialapp/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by JWTAuth and AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// users moderation
	admin.GET("/users", h.ListUsers)
	admin.PATCH("/users/:id/ban", h.BanUser)
	admin.PATCH("/users/:id/unban", h.UnbanUser)
	admin.PATCH("/users/:id/role", h.SetRole)

	// content moderation
	admin.DELETE("/posts/:id", h.DeletePost)
	admin.DELETE("/comments/:id", h.DeleteComment)

	// uploads
	admin.GET("/files/stats", h.FileStats)
	admin.POST("/files/sweep", h.Sweep)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.service.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) BanUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BanRequest
	// body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.FieldErrors(err))
			return
		}
	}

	user, err := h.service.Ban(c.Request.Context(), c.GetInt64(middleware.UserIDKey), id, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) UnbanUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.service.Unban(c.Request.Context(), c.GetInt64(middleware.UserIDKey), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) SetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", validator.FieldErrors(err))
		return
	}

	user, err := h.service.SetRole(c.Request.Context(), c.GetInt64(middleware.UserIDKey), id, req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), c.GetInt64(middleware.UserIDKey), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), c.GetInt64(middleware.UserIDKey), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) FileStats(c *gin.Context) {
	stats, err := h.service.FileStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) Sweep(c *gin.Context) {
	stats := h.service.Sweep(c.Request.Context(), c.GetInt64(middleware.UserIDKey))
	if stats.Skipped != "" {
		response.Success(c, http.StatusAccepted, stats)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrCannotBanSelf):
		response.Error(c, http.StatusBadRequest, "CANNOT_BAN_SELF", "You cannot ban yourself")
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role")
	case errors.Is(err, post.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, "POST_NOT_FOUND", "Post not found")
	case errors.Is(err, comment.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, "COMMENT_NOT_FOUND", "Comment not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
