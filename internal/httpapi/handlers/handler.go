package handlers

import (
	"net/http"

	"github.com/bakaevs/cs-gpt/internal/chat"
	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/bakaevs/cs-gpt/internal/ingest"
	"github.com/bakaevs/cs-gpt/internal/store/rabbitmq"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	ChatSvc   *chat.Service
	IngestSvc *ingest.Service
	Publisher *rabbitmq.Publisher
}

func NewHandler(chatSvc *chat.Service, ingestSvc *ingest.Service, pub *rabbitmq.Publisher) *Handler {
	return &Handler{ChatSvc: chatSvc, IngestSvc: ingestSvc, Publisher: pub}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, http.StatusOK, gin.H{"pong": true})
}
