package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
)

type GeralLogHandler struct {
	service *service.GeralLogService
}

func NewGeralLogHandler(service *service.GeralLogService) *GeralLogHandler {
	return &GeralLogHandler{service: service}
}

// Handles GET /root/geral-logs
func (h *GeralLogHandler) List(c *gin.Context) {
	// Parse pagination
	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	var logType models.LogType
	if typeStr := c.Query("type"); typeStr != "" {
		logType = models.LogType(strings.ToUpper(typeStr))
		if !logType.Valid() {
			RespondError(c, http.StatusBadRequest, "Invalid log type",
				ErrorDetail{Field: "type", Message: "type must be one of TRACE, DEBUG, INFO, WARN, ERROR, FATAL"})
			return
		}
	}

	logs, err := h.service.List(c.Request.Context(), logType, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}
