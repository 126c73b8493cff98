package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/aman-churiwal/root-panel/internal/handler"
	"github.com/gin-gonic/gin"
)

// Turns a panic into a 500 envelope. Middleware registered before it still
// sees the response and the panic in c.Errors.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				log.Printf("[%s] PANIC: %v", requestID, err)

				_ = c.Error(fmt.Errorf("panic: %v", err))

				handler.RespondError(c, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		c.Next()
	}
}
