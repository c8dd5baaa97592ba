package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/order"
	"github.com/datamartgh/backend/internal/services/pricing"
	"github.com/datamartgh/backend/internal/services/wallet"
)

// currentUser pulls the authenticated principal out of the request context.
// A false return means the auth middleware did not run for this route.
func currentUser(c *gin.Context) (uuid.UUID, models.Role, bool) {
	idValue, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	userID, ok := idValue.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}

	roleValue, _ := c.Get("role")
	role, _ := roleValue.(models.Role)
	return userID, role, true
}

// respondServiceError maps service-layer errors onto HTTP responses. Expected
// business failures become 4xx with a stable code; anything unrecognized is a
// 500 with the detail kept in the server log.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *order.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "message": validationErr.Error()})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INSUFFICIENT_FUNDS", "message": "wallet balance is too low for this purchase"})
	case errors.Is(err, wallet.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_AMOUNT", "message": "amount must be positive"})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_TRANSITION", "message": err.Error()})
	case errors.Is(err, order.ErrNoOpTransition):
		c.JSON(http.StatusBadRequest, gin.H{"code": "NO_OP_TRANSITION", "message": "order is already in the requested status"})
	case errors.Is(err, order.ErrOrderingClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "ORDERING_CLOSED", "message": "ordering is currently closed for this network"})
	case errors.Is(err, order.ErrBatchTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"code": "BATCH_TOO_LARGE", "message": err.Error()})
	case errors.Is(err, pricing.ErrBundleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "BUNDLE_NOT_FOUND", "message": "no active bundle matches the requested type and capacity"})
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "ORDER_NOT_FOUND", "message": "order not found"})
	case errors.Is(err, order.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "USER_NOT_FOUND", "message": "user not found"})
	case errors.Is(err, wallet.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "WALLET_NOT_FOUND", "message": "wallet not found"})
	default:
		logrus.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "something went wrong"})
	}
}

// pagination reads page and limit query params with sane bounds
func pagination(c *gin.Context) (page, pageSize int) {
	page = queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = queryInt(c, "limit", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
