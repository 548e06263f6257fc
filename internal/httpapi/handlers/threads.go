package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bakaevs/cs-gpt/internal/chat"
	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/gin-gonic/gin"
)

type createThreadReq struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name"`
}

func (h *Handler) CreateThread(c *gin.Context) {
	var req createThreadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id is required")
		return
	}

	t, err := h.ChatSvc.CreateThread(c.Request.Context(), req.UserID, req.Name)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}
	common.OK(c, http.StatusCreated, t)
}

func (h *Handler) ListThreads(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id is required")
		return
	}

	threads, err := h.ChatSvc.Threads(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}
	common.OK(c, http.StatusOK, threads)
}

func (h *Handler) ListThreadMessages(c *gin.Context) {
	userID := c.Query("user_id")
	threadID, ok := threadParam(c)
	if userID == "" || !ok {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id and a numeric thread_id are required")
		return
	}

	msgs, err := h.ChatSvc.ThreadMessages(c.Request.Context(), userID, threadID)
	if err != nil {
		threadError(c, err)
		return
	}
	common.OK(c, http.StatusOK, msgs)
}

type renameThreadReq struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

func (h *Handler) RenameThread(c *gin.Context) {
	var req renameThreadReq
	threadID, ok := threadParam(c)
	if err := c.ShouldBindJSON(&req); err != nil || !ok {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id, name and a numeric thread_id are required")
		return
	}

	if err := h.ChatSvc.RenameThread(c.Request.Context(), req.UserID, threadID, req.Name); err != nil {
		threadError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"thread_id": threadID, "name": req.Name})
}

func (h *Handler) DeleteThread(c *gin.Context) {
	userID := c.Query("user_id")
	threadID, ok := threadParam(c)
	if userID == "" || !ok {
		common.Fail(c, http.StatusBadRequest, 40001, "user_id and a numeric thread_id are required")
		return
	}

	if err := h.ChatSvc.DeleteThread(c.Request.Context(), userID, threadID); err != nil {
		threadError(c, err)
		return
	}
	common.OK(c, http.StatusOK, gin.H{"deleted": threadID})
}

func threadParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("thread_id"), 10, 64)
	return id, err == nil
}

func threadError(c *gin.Context, err error) {
	if errors.Is(err, chat.ErrThreadNotFound) {
		common.Fail(c, http.StatusNotFound, 40401, "thread not found")
		return
	}
	common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
}
