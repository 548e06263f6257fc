package middleware

import (
	"log"
	"net/http"

	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/gin-gonic/gin"
)

// Recovery converts panics into the JSON error envelope instead of a bare
// 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				common.Fail(c, http.StatusInternalServerError, 50000, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
