package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/wallet"
)

// AdminWalletHandler handles administrative wallet adjustments
type AdminWalletHandler struct {
	walletService *wallet.WalletService
}

// NewAdminWalletHandler creates a new admin wallet handler
func NewAdminWalletHandler(walletService *wallet.WalletService) *AdminWalletHandler {
	return &AdminWalletHandler{walletService: walletService}
}

// AdjustmentRequest is the request body for an admin credit or debit
type AdjustmentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

// Credit handles POST /api/admin/users/:id/wallet/deposit. The acting admin
// is recorded on the resulting transaction.
func (h *AdminWalletHandler) Credit(c *gin.Context) {
	h.adjust(c, true)
}

// Debit handles POST /api/admin/users/:id/wallet/debit. Debits respect the
// non-negative balance rule like any purchase.
func (h *AdminWalletHandler) Debit(c *gin.Context) {
	h.adjust(c, false)
}

func (h *AdminWalletHandler) adjust(c *gin.Context, credit bool) {
	actorID, actorRole, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := wallet.Actor{ID: actorID, Role: actorRole}
	var transaction *models.Transaction
	if credit {
		transaction, err = h.walletService.AdminCredit(targetID, req.Amount, actor, req.Reason)
	} else {
		transaction, err = h.walletService.AdminDebit(targetID, req.Amount, actor, req.Reason)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}
