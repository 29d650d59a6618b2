package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locus/util"
)

const defaultMaxBodySize = 1024 * 1024 // 1MB

// BodySizeLimit caps request bodies at maxSize (e.g. "64KB", "1MB").
func BodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
