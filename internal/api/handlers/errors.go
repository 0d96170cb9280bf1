package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/dto/common"
)

// NotFound answers every unmatched route
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, common.RouteErrorResponse{Error: common.MsgRouteNotFound})
}
