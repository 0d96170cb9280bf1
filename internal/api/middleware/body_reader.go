package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/dto/common"
)

// LimitRequestBody rejects bodies larger than maxBytes.
// Declared lengths are checked up front; chunked bodies fail while being read.
func LimitRequestBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(common.MsgBodyTooLarge))
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
