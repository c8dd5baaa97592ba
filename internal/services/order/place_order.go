package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/delivery"
	"github.com/datamartgh/backend/internal/services/sms"
	"github.com/datamartgh/backend/internal/services/wallet"
	"github.com/datamartgh/backend/internal/utils"
)

// PlaceOrderRequest carries everything needed to place one order. The charge
// amount is always resolved server-side from the catalog; client-submitted
// prices are never trusted.
type PlaceOrderRequest struct {
	UserID          uuid.UUID
	Role            models.Role
	BundleType      models.BundleType
	Capacity        float64
	RecipientNumber string
	Metadata        models.JSON
}

// PlaceOrderResult is the outcome of a successful placement
type PlaceOrderResult struct {
	Order         *models.Order       `json:"order"`
	Transaction   *models.Transaction `json:"transaction"`
	WalletBalance float64             `json:"walletBalance"`
}

// PlaceOrder prices a bundle for the requesting role, then atomically debits
// the wallet and creates the order. Bundle types configured for automatic
// delivery are pushed to the gateway before commit: a successful delivery
// completes the order in the same transaction, while any gateway failure
// leaves it pending for manual processing with the provider message stored
// for operators. The customer is charged if and only if an order record
// exists.
func (s *OrderService) PlaceOrder(req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if !models.ValidBundleType(req.BundleType) {
		return nil, &ValidationError{Field: "bundleType", Message: "unknown bundle type"}
	}
	if req.Capacity <= 0 {
		return nil, &ValidationError{Field: "capacity", Message: "capacity must be positive"}
	}
	if !utils.ValidPhoneNumber(req.RecipientNumber) {
		return nil, &ValidationError{Field: "recipientNumber", Message: "invalid phone number"}
	}

	settings, err := s.currentSettings()
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	if !settings.NetworkAvailable(req.BundleType) {
		return nil, ErrOrderingClosed
	}

	// Price resolution happens before the atomic unit so a missing bundle
	// aborts without touching the wallet.
	price, err := s.pricing.ResolvePrice(req.BundleType, req.Capacity, req.Role)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(req.UserID)
	if err != nil {
		return nil, err
	}

	// Advisory balance check before the atomic unit opens; the debit inside
	// the transaction remains the authoritative re-check.
	sufficient, err := s.wallets.CheckSufficient(user.ID, price)
	if err != nil {
		return nil, err
	}
	if !sufficient {
		return nil, wallet.ErrInsufficientFunds
	}

	recipient := utils.NormalizePhoneNumber(req.RecipientNumber)

	var placed *models.Order
	var txn *models.Transaction
	var autoCompleted bool

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		placed, err = s.createOrderTx(tx, user.ID, req.BundleType, req.Capacity, price, recipient, req.Metadata)
		if err != nil {
			return err
		}

		description := fmt.Sprintf("Purchase of %.2fGB %s bundle (order %s)", req.Capacity, req.BundleType, placed.Reference)
		txn, err = s.wallets.DebitWithTx(tx, user.ID, price, models.TransactionTypePurchase, &placed.ID, nil, description, nil)
		if err != nil {
			return err
		}

		if s.gateway == nil || !delivery.AutoDelivery(req.BundleType) {
			return nil
		}

		result := s.gateway.AttemptDelivery(req.BundleType, recipient, req.Capacity, placed.Reference)
		if !result.Delivered {
			// The charge stands and the order stays pending so an Editor
			// can retry; the gateway message is kept for visibility.
			meta := placed.MetaData
			if meta == nil {
				meta = models.JSON{}
			}
			meta["gateway_message"] = result.ProviderMessage
			placed.MetaData = meta
			if err := tx.Model(&models.Order{}).Where("id = ?", placed.ID).Update("meta_data", meta).Error; err != nil {
				return fmt.Errorf("error recording gateway failure: %w", err)
			}
			logrus.WithFields(logrus.Fields{
				"order":   placed.Reference,
				"message": result.ProviderMessage,
			}).Warn("auto delivery failed, order left pending")
			return nil
		}

		if result.ProviderReference != "" {
			placed.APIReference = result.ProviderReference
			if err := tx.Model(&models.Order{}).Where("id = ?", placed.ID).Update("api_reference", result.ProviderReference).Error; err != nil {
				return fmt.Errorf("error recording api reference: %w", err)
			}
		}

		if err := s.transitionTx(tx, placed, models.OrderStatusCompleted, nil, "auto-completed via gateway"); err != nil {
			return err
		}
		autoCompleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best-effort: inform the user when the order auto-completed
	if autoCompleted && s.notifier != nil {
		s.notifier.NotifyOrder(user, placed, sms.KindCompleted, settings.SMSSenderID)
	}

	return &PlaceOrderResult{
		Order:         placed,
		Transaction:   txn,
		WalletBalance: txn.BalanceAfter,
	}, nil
}

// TransitionOrderStatus moves an order through the state machine on behalf
// of a staff actor. Transitioning into refunded credits the buyer's wallet
// for the captured price inside the same database transaction: a refund is
// never recorded without the matching order-state change, and vice versa.
// An empty senderID falls back to the configured SMS sender name.
func (s *OrderService) TransitionOrderStatus(orderID uuid.UUID, newStatus models.OrderStatus, actor wallet.Actor, reason, senderID string, notify bool) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, &ValidationError{Field: "status", Message: "unknown status"}
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		return nil, ErrNoOpTransition
	}
	if !models.ValidTransition(order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if newStatus == models.OrderStatusRefunded {
			description := fmt.Sprintf("Refund for order %s", order.Reference)
			if _, err := s.wallets.CreditWithTx(tx, order.UserID, order.Price, models.TransactionTypeRefund, &order.ID, &actor, description, nil); err != nil {
				return err
			}
		}
		return s.transitionTx(tx, order, newStatus, &actor, reason)
	})
	if err != nil {
		return nil, err
	}

	if notify && s.notifier != nil {
		if kind, ok := notificationKind(newStatus); ok {
			if user, err := s.loadUser(order.UserID); err == nil {
				if senderID == "" {
					if settings, _ := s.currentSettings(); settings != nil {
						senderID = settings.SMSSenderID
					}
				}
				s.notifier.NotifyOrder(user, order, kind, senderID)
			}
		}
	}

	return order, nil
}

// notificationKind maps a new status to the SMS wording kind, if any
func notificationKind(status models.OrderStatus) (sms.TransitionKind, bool) {
	switch status {
	case models.OrderStatusCompleted:
		return sms.KindCompleted, true
	case models.OrderStatusRefunded:
		return sms.KindRefunded, true
	case models.OrderStatusFailed:
		return sms.KindFailed, true
	}
	return "", false
}
