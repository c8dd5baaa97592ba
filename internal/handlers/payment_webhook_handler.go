package handlers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/services/payment"
)

// PaymentWebhookHandler receives deposit confirmations from Paystack
type PaymentWebhookHandler struct {
	paymentService *payment.PaymentService
	secretKey      string
}

// NewPaymentWebhookHandler creates a new payment webhook handler
func NewPaymentWebhookHandler(paymentService *payment.PaymentService, secretKey string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{paymentService: paymentService, secretKey: secretKey}
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandlePaystackWebhook handles POST /api/webhooks/paystack. The payload is
// authenticated with the x-paystack-signature HMAC before any processing.
// Confirmation is idempotent, so redelivered events are safe.
func (h *PaymentWebhookHandler) HandlePaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
		return
	}

	if !h.validSignature(body, c.GetHeader("x-paystack-signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if event.Event != "charge.success" {
		// Acknowledge events we do not act on so Paystack stops retrying
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if _, err := h.paymentService.ConfirmDeposit(event.Data.Reference); err != nil {
		logrus.WithError(err).WithField("reference", event.Data.Reference).Error("webhook deposit confirmation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

func (h *PaymentWebhookHandler) validSignature(body []byte, signature string) bool {
	if h.secretKey == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(h.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
