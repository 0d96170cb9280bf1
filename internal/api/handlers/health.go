package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osa911/contactrelay/internal/api/dto/common"
)

type HealthHandler struct {
	status string
}

func NewHealthHandler(siteName string) *HealthHandler {
	return &HealthHandler{status: siteName + " Contact API is running"}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, common.StatusResponse{Status: h.status})
}
