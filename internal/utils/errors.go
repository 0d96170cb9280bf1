package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/logging"
)

// HandleAPIError logs err with the request context and replies with message.
// The error itself never reaches the response body.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error, status int, message string) {
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		status,
		message,
		err,
	)

	c.AbortWithStatusJSON(status, common.NewErrorResponse(message))
}
