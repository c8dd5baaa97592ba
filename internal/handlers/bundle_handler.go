package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
)

// BundleHandler handles the data bundle catalog
type BundleHandler struct {
	db *gorm.DB
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(db *gorm.DB) *BundleHandler {
	return &BundleHandler{db: db}
}

// BundleRequest is the request body for creating or updating a bundle
type BundleRequest struct {
	Type       models.BundleType `json:"type" binding:"required"`
	Capacity   float64           `json:"capacity" binding:"required,gt=0"`
	Price      float64           `json:"price" binding:"required,gt=0"`
	RolePrices models.JSON       `json:"role_prices"`
	Active     *bool             `json:"active"`
}

// List handles GET /api/bundles. The storefront only sees active bundles;
// callers with catalog management capability can request everything.
func (h *BundleHandler) List(c *gin.Context) {
	query := h.db.Model(&models.Bundle{})

	includeInactive := c.Query("all") == "true"
	if includeInactive {
		value, _ := c.Get("capabilities")
		caps, ok := value.(models.Capabilities)
		if !ok || !caps.CanManageBundles {
			includeInactive = false
		}
	}
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	if bundleType := c.Query("type"); bundleType != "" {
		query = query.Where("type = ?", bundleType)
	}

	var bundles []models.Bundle
	if err := query.Order("type, capacity").Find(&bundles).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundles": bundles})
}

// Get handles GET /api/bundles/:id
func (h *BundleHandler) Get(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle ID"})
		return
	}

	var bundle models.Bundle
	if err := h.db.First(&bundle, "id = ?", bundleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Create handles POST /api/admin/bundles
func (h *BundleHandler) Create(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidBundleType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "unknown bundle type"})
		return
	}

	bundle := models.Bundle{
		Type:       req.Type,
		Capacity:   req.Capacity,
		Price:      req.Price,
		RolePrices: req.RolePrices,
		Slug:       bundleSlug(req.Type, req.Capacity),
		Active:     true,
	}
	if req.Active != nil {
		bundle.Active = *req.Active
	}

	if err := h.db.Create(&bundle).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bundle)
}

// Update handles PUT /api/admin/bundles/:id
func (h *BundleHandler) Update(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle ID"})
		return
	}

	var bundle models.Bundle
	if err := h.db.First(&bundle, "id = ?", bundleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
			return
		}
		respondServiceError(c, err)
		return
	}

	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidBundleType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "unknown bundle type"})
		return
	}

	bundle.Type = req.Type
	bundle.Capacity = req.Capacity
	bundle.Price = req.Price
	bundle.RolePrices = req.RolePrices
	bundle.Slug = bundleSlug(req.Type, req.Capacity)
	if req.Active != nil {
		bundle.Active = *req.Active
	}

	if err := h.db.Save(&bundle).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

// Delete handles DELETE /api/admin/bundles/:id. Bundles are soft deleted so
// historical orders keep a resolvable catalog entry.
func (h *BundleHandler) Delete(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle ID"})
		return
	}

	result := h.db.Delete(&models.Bundle{}, "id = ?", bundleID)
	if result.Error != nil {
		respondServiceError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func bundleSlug(bundleType models.BundleType, capacity float64) string {
	return slug.Make(fmt.Sprintf("%s-%gGB", bundleType, capacity))
}
