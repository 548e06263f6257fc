package httpapi

import (
	"net/http"

	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/bakaevs/cs-gpt/internal/httpapi/handlers"
	"github.com/bakaevs/cs-gpt/internal/httpapi/middleware"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	assistant := r.Group("/assistant")
	{
		assistant.POST("/message", h.SendMessage)
		assistant.POST("/reset", h.Reset)
		assistant.GET("/threads", h.ListThreads)
		assistant.POST("/threads", h.CreateThread)
		assistant.GET("/threads/:thread_id/messages", h.ListThreadMessages)
		assistant.PUT("/threads/:thread_id/name", h.RenameThread)
		assistant.DELETE("/threads/:thread_id", h.DeleteThread)
	}

	documents := r.Group("/documents")
	{
		documents.POST("", h.CreateDocument)
		documents.GET("/jobs/:job_id", h.GetJob)
	}

	return r
}
