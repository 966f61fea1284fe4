package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fail writes a {"error": msg} body. Server-side failures are logged with
// the underlying error, which is never sent to the client.
func Fail(c *gin.Context, log *zap.Logger, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
		if status >= 500 && log != nil {
			log.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

func ParseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Page clamps limit/offset query values.
func Page(c *gin.Context, defLimit int) (limit, offset int) {
	limit = ParseInt(c.Query("limit"), defLimit)
	offset = ParseInt(c.Query("offset"), 0)
	if limit <= 0 || limit > 100 {
		limit = defLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
