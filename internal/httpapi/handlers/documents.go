package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/bakaevs/cs-gpt/internal/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createDocumentReq struct {
	Source string `json:"source" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// CreateDocument records an ingestion job and hands it to the worker. With no
// broker configured the job runs in-process so single-binary deployments
// still work.
func (h *Handler) CreateDocument(c *gin.Context) {
	var req createDocumentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 40001, "source and text are required")
		return
	}

	job, err := h.IngestSvc.CreateJob(c.Request.Context(), req.Source, req.Text)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}

	if h.Publisher != nil {
		if err := h.Publisher.PublishJob(c.Request.Context(), job.ID); err != nil {
			common.Fail(c, http.StatusInternalServerError, 50002, "failed to enqueue job: "+err.Error())
			return
		}
	} else {
		go func(id string) {
			if err := h.IngestSvc.RunJob(context.Background(), id); err != nil {
				log.Printf("ingest: inline job %s failed: %v", id, err)
			}
		}(job.ID)
	}

	common.OK(c, http.StatusAccepted, gin.H{"job_id": job.ID, "status": job.Status})
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.IngestSvc.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, err.Error())
		return
	}
	common.OK(c, http.StatusOK, job)
}
