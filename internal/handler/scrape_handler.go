package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roomscout/roomscout-api/internal/service"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
	"github.com/roomscout/roomscout-api/pkg/jobs"
	"github.com/roomscout/roomscout-api/pkg/response"
)

// ScrapeHandler triggers and reports on scrape runs.
type ScrapeHandler struct {
	service *service.ScrapeService
	queue   *jobs.Queue
}

// NewScrapeHandler constructs handler.
func NewScrapeHandler(svc *service.ScrapeService, queue *jobs.Queue) *ScrapeHandler {
	return &ScrapeHandler{service: svc, queue: queue}
}

// Trigger handles POST /scrape by enqueuing a background run.
func (h *ScrapeHandler) Trigger(c *gin.Context) {
	if h.service.Running() {
		response.Error(c, appErrors.ErrScrapeBusy)
		return
	}

	job := jobs.Job{ID: uuid.NewString(), Type: "scrape"}
	if !h.queue.TryEnqueue(job) {
		response.Error(c, appErrors.ErrScrapeBusy)
		return
	}

	response.Accepted(c, gin.H{"job_id": job.ID})
}

// Status handles GET /scrape/status.
func (h *ScrapeHandler) Status(c *gin.Context) {
	status := gin.H{"running": h.service.Running()}
	if report := h.service.LastReport(); report != nil {
		status["last_report"] = report
	}
	response.JSON(c, http.StatusOK, status)
}
