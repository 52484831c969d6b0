package response

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"socialapp/internal/pkg/i18n"
)

// LocaleKey is the gin context key holding the request's language.Tag.
const LocaleKey = "locale"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes the standard error envelope. Known codes are translated into
// the request locale; message is used when the catalog has no entry.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": localize(c, code, message),
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": localize(c, code, message),
			"details": details,
		},
	})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

func localize(c *gin.Context, code, fallback string) string {
	tag := language.English
	if v, ok := c.Get(LocaleKey); ok {
		if t, ok := v.(language.Tag); ok {
			tag = t
		}
	}
	if msg, ok := i18n.Translate(tag, code); ok {
		return msg
	}
	return fallback
}
