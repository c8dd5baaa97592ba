package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/services/payment"
	"github.com/datamartgh/backend/internal/services/wallet"
)

// WalletHandler handles wallet balance, history and deposit requests
type WalletHandler struct {
	db             *gorm.DB
	walletService  *wallet.WalletService
	paymentService *payment.PaymentService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(db *gorm.DB, walletService *wallet.WalletService, paymentService *payment.PaymentService) *WalletHandler {
	return &WalletHandler{
		db:             db,
		walletService:  walletService,
		paymentService: paymentService,
	}
}

// GetBalance handles GET /api/wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	walletRecord, err := h.walletService.GetOrCreateWallet(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, walletRecord)
}

// GetTransactions handles GET /api/wallet/transactions
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, pageSize := pagination(c)
	transactions, total, err := h.walletService.GetTransactionHistory(userID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        total,
		"page":         page,
		"limit":        pageSize,
	})
}

// DepositRequest is the request body for initiating a wallet deposit
type DepositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// InitiateDeposit handles POST /api/wallet/deposit. It returns the provider
// checkout URL; the wallet is credited later, once the provider confirms.
func (h *WalletHandler) InitiateDeposit(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := c.GetString("email")
	paymentRecord, err := h.paymentService.InitiateDeposit(userID, req.Amount, email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reference":    paymentRecord.Reference,
		"checkout_url": paymentRecord.AuthURL,
		"amount":       paymentRecord.Amount,
		"status":       paymentRecord.Status,
	})
}

// VerifyDeposit handles GET /api/wallet/deposit/verify/:reference, the
// browser callback after checkout. It runs the same confirmation path as the
// webhook so either can land first.
func (h *WalletHandler) VerifyDeposit(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	paymentRecord, err := h.paymentService.ConfirmDeposit(c.Param("reference"))
	if err != nil {
		switch err {
		case payment.ErrPaymentNotFound:
			c.JSON(http.StatusNotFound, gin.H{"code": "PAYMENT_NOT_FOUND", "message": "payment not found"})
		case payment.ErrPaymentNotConfirmed:
			c.JSON(http.StatusBadRequest, gin.H{"code": "PAYMENT_NOT_CONFIRMED", "message": "payment has not been confirmed by the provider"})
		default:
			respondServiceError(c, err)
		}
		return
	}

	if paymentRecord.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	c.JSON(http.StatusOK, paymentRecord)
}
