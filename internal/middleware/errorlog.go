package middleware

import (
	"fmt"

	"github.com/aman-churiwal/root-panel/internal/models"
	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
)

// Records an ERROR general log for every request that ends in a 5xx
func ErrorLogRecorder(logs *service.GeralLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 500 {
			return
		}

		value := fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status)
		if len(c.Errors) > 0 {
			value += ": " + c.Errors.String()
		}

		logs.Record(models.LogError, "request:"+c.GetString("request_id"), value)
	}
}
