package handlers

import (
	"errors"
	"net/http"

	"github.com/bakaevs/cs-gpt/internal/chat"
	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/gin-gonic/gin"
)

type sendMessageReq struct {
	UserID   string `json:"user_id" binding:"required"`
	ThreadID uint64 `json:"thread_id"`
	Message  string `json:"message" binding:"required"`
}

// SendMessage runs one question through the assistant. External failures are
// encoded in the answer body, so this responds 200 unless the request itself
// is invalid or storage is down.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id and message are required")
		return
	}

	answer, err := h.ChatSvc.Ask(c.Request.Context(), req.UserID, req.ThreadID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrThreadNotFound) {
			common.Fail(c, http.StatusNotFound, 40401, "thread not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}
	common.OK(c, http.StatusOK, answer)
}

type resetReq struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *Handler) Reset(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id is required")
		return
	}

	if err := h.ChatSvc.Reset(c.Request.Context(), req.UserID); err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}
	common.OK(c, http.StatusOK, gin.H{"message": "conversation history reset for user: " + req.UserID})
}
