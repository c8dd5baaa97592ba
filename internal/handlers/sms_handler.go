package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datamartgh/backend/internal/cache"
	"github.com/datamartgh/backend/internal/jobs"
	"github.com/datamartgh/backend/internal/queue"
)

// SMSHandler handles administrative SMS broadcasts
type SMSHandler struct {
	queue    *queue.Queue
	settings *cache.SettingsCache
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(q *queue.Queue, settings *cache.SettingsCache) *SMSHandler {
	return &SMSHandler{queue: q, settings: settings}
}

// BroadcastRequest is the request body for a bulk SMS broadcast
type BroadcastRequest struct {
	Message    string   `json:"message" binding:"required"`
	Recipients []string `json:"recipients" binding:"required,min=1"`
	SenderID   string   `json:"sender_id"`
}

// Broadcast handles POST /api/admin/sms/broadcast. The send happens on the
// job queue; the handler only records the request and returns the job ID.
func (h *SMSHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderID := req.SenderID
	if senderID == "" {
		if settings, err := h.settings.Get(); err == nil {
			senderID = settings.SMSSenderID
		}
	}

	jobID, err := h.queue.EnqueueJob(queue.JobTypeSMSBroadcast, jobs.SMSBroadcastPayload{
		Message:    req.Message,
		SenderID:   senderID,
		Recipients: req.Recipients,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":     jobID,
		"recipients": len(req.Recipients),
	})
}

// BroadcastStatus handles GET /api/admin/sms/broadcast/:id
func (h *SMSHandler) BroadcastStatus(c *gin.Context) {
	job, err := h.queue.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
