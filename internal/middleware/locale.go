package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"socialapp/internal/pkg/i18n"
	"socialapp/internal/pkg/response"
)

// Locale picks the response language from Accept-Language.
func Locale(fallback language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.LocaleKey, i18n.Match(c.GetHeader("Accept-Language"), fallback))
		c.Next()
	}
}
