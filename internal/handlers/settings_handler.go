package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datamartgh/backend/internal/cache"
)

// SettingsHandler handles the platform feature toggles
type SettingsHandler struct {
	settings *cache.SettingsCache
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *cache.SettingsCache) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /api/admin/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsRequest is the request body for updating platform toggles.
// Pointers distinguish "leave unchanged" from an explicit false.
type UpdateSettingsRequest struct {
	OrderingEnabled  *bool   `json:"ordering_enabled"`
	MTNAvailable     *bool   `json:"mtn_available"`
	ATAvailable      *bool   `json:"at_available"`
	TelecelAvailable *bool   `json:"telecel_available"`
	AfAAvailable     *bool   `json:"afa_available"`
	SMSSenderID      *string `json:"sms_sender_id"`
}

// Update handles PUT /api/admin/settings and invalidates the cached copy so
// the change takes effect on the next order
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settings.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.OrderingEnabled != nil {
		settings.OrderingEnabled = *req.OrderingEnabled
	}
	if req.MTNAvailable != nil {
		settings.MTNAvailable = *req.MTNAvailable
	}
	if req.ATAvailable != nil {
		settings.ATAvailable = *req.ATAvailable
	}
	if req.TelecelAvailable != nil {
		settings.TelecelAvailable = *req.TelecelAvailable
	}
	if req.AfAAvailable != nil {
		settings.AfAAvailable = *req.AfAAvailable
	}
	if req.SMSSenderID != nil {
		if len(*req.SMSSenderID) == 0 || len(*req.SMSSenderID) > 11 {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "sender ID must be 1 to 11 characters"})
			return
		}
		settings.SMSSenderID = *req.SMSSenderID
	}

	if err := h.settings.Update(settings); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
