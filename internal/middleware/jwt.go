package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"socialapp/internal/pkg/jwt"
	"socialapp/internal/pkg/response"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

type tokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// JWTAuth requires a valid bearer token and stores its claims under
// UserIDKey and RoleKey.
func JWTAuth(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token expired"
			}
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", msg)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

type BanLookup interface {
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

// RejectBanned stops banned users whose tokens are still valid. It must run
// after JWTAuth.
func RejectBanned(users BanLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		banned, err := users.IsBanned(c.Request.Context(), c.GetInt64(UserIDKey))
		if err != nil {
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check account status")
			return
		}
		if banned {
			response.Abort(c, http.StatusForbidden, "USER_BANNED", "Account is banned")
			return
		}
		c.Next()
	}
}
