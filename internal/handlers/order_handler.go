package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/order"
	"github.com/datamartgh/backend/internal/services/wallet"
)

// OrderHandler handles order placement and status management
type OrderHandler struct {
	db           *gorm.DB
	orderService *order.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, orderService *order.OrderService) *OrderHandler {
	return &OrderHandler{db: db, orderService: orderService}
}

// PlaceOrderRequest is the request body for a single purchase. No price
// field is accepted: the charge is always resolved from the catalog.
// Metadata carries free-form order context such as AfA registrant details.
type PlaceOrderRequest struct {
	BundleType models.BundleType `json:"bundleType" binding:"required"`
	Capacity   float64           `json:"capacity" binding:"required"`
	Recipient  string            `json:"recipientNumber" binding:"required"`
	Metadata   models.JSON       `json:"metadata"`
}

// PlaceOrder handles POST /api/orders/place
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orderService.PlaceOrder(order.PlaceOrderRequest{
		UserID:          userID,
		Role:            role,
		BundleType:      req.BundleType,
		Capacity:        req.Capacity,
		RecipientNumber: req.Recipient,
		Metadata:        req.Metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// BulkPurchaseRequest is the request body for a bulk purchase. The network
// key is the bundle type shared by every line in the batch.
type BulkPurchaseRequest struct {
	NetworkKey models.BundleType `json:"networkKey" binding:"required"`
	Orders     []order.BulkEntry `json:"orders" binding:"required"`
}

// BulkPurchase handles POST /api/orders/bulk-purchase
func (h *OrderHandler) BulkPurchase(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BulkPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orderService.BulkPlaceOrder(userID, role, req.NetworkKey, req.Orders)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Partial failure is still a handled outcome with itemized results
	c.JSON(http.StatusOK, result)
}

// UpdateStatusRequest is the request body for an order status change.
// SenderID overrides the configured SMS sender name for this notification.
type UpdateStatusRequest struct {
	Status              models.OrderStatus `json:"status" binding:"required"`
	FailureReason       string             `json:"failureReason"`
	SenderID            string             `json:"senderID"`
	SendSMSNotification bool               `json:"sendSMSNotification"`
}

// UpdateStatus handles PUT /api/orders/:id/status. Moving an order to
// refunded credits the purchase amount back in the same transaction as the
// status change.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "unknown order status"})
		return
	}

	actor := wallet.Actor{ID: userID, Role: role}
	updated, err := h.orderService.TransitionOrderStatus(orderID, req.Status, actor, req.FailureReason, req.SenderID, req.SendSMSNotification)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetOrder handles GET /api/orders/:id. Customers can only see their own
// orders; principals with the view-all capability can see any.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	record, err := h.orderService.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if record.UserID != userID && !models.CapabilitiesForRole(role).CanViewAllOrders {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// LookupByReference handles GET /api/orders/reference/:reference
func (h *OrderHandler) LookupByReference(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	scope := &userID
	if models.CapabilitiesForRole(role).CanViewAllOrders {
		scope = nil
	}

	record, err := h.orderService.FindByReference(c.Param("reference"), scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListMyOrders handles GET /api/orders for the authenticated user
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, pageSize := pagination(c)
	orders, total, err := h.orderService.GetUserOrders(userID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  pageSize,
	})
}

// ListAllOrders handles GET /api/admin/orders with optional status and
// bundle type filters
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	page, pageSize := pagination(c)

	query := h.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": "unknown order status"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if bundleType := c.Query("type"); bundleType != "" {
		query = query.Where("bundle_type = ?", bundleType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	var orders []models.Order
	err := query.
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  pageSize,
	})
}
