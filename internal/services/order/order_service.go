package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
	"github.com/datamartgh/backend/internal/services/delivery"
	"github.com/datamartgh/backend/internal/services/pricing"
	"github.com/datamartgh/backend/internal/services/sms"
	"github.com/datamartgh/backend/internal/services/wallet"
	"github.com/datamartgh/backend/internal/utils"
)

// DeliveryGateway is the external fulfillment capability the orchestrator
// depends on. Implementations never return an error: every failure mode is
// normalized into the result.
type DeliveryGateway interface {
	AttemptDelivery(bundleType models.BundleType, recipientNumber string, capacityGB float64, reference string) delivery.Result
}

// Notifier is the best-effort post-commit notification capability
type Notifier interface {
	NotifyOrder(user *models.User, order *models.Order, kind sms.TransitionKind, senderID string) sms.SendResult
}

// SettingsSource yields the current admin settings, loaded per request
// rather than read from ambient global state
type SettingsSource interface {
	Get() (*models.AdminSettings, error)
}

// OrderService composes the pricing resolver, wallet ledger, order store and
// delivery gateway into atomic order operations. It is the only component
// that transitions order status.
type OrderService struct {
	db       *gorm.DB
	pricing  *pricing.PricingService
	wallets  *wallet.WalletService
	gateway  DeliveryGateway
	notifier Notifier
	settings SettingsSource
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB, pricingSvc *pricing.PricingService, walletSvc *wallet.WalletService, gateway DeliveryGateway, notifier Notifier, settings SettingsSource) *OrderService {
	return &OrderService{
		db:       db,
		pricing:  pricingSvc,
		wallets:  walletSvc,
		gateway:  gateway,
		notifier: notifier,
		settings: settings,
	}
}

// GetOrder gets an order by ID
func (s *OrderService) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("StatusHistory").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("error finding order: %w", err)
	}
	return &order, nil
}

// FindByReference gets an order by its externally shareable reference.
// When scopeToUser is non-nil the lookup is restricted to that user's orders.
func (s *OrderService) FindByReference(reference string, scopeToUser *uuid.UUID) (*models.Order, error) {
	query := s.db.Where("reference = ?", reference)
	if scopeToUser != nil {
		query = query.Where("user_id = ?", *scopeToUser)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("error finding order: %w", err)
	}
	return &order, nil
}

// GetUserOrders lists a user's orders, newest first
func (s *OrderService) GetUserOrders(userID uuid.UUID, page, pageSize int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("error counting orders: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("error finding orders: %w", err)
	}

	return orders, total, nil
}

// createOrderTx inserts a pending order inside an existing transaction
func (s *OrderService) createOrderTx(tx *gorm.DB, userID uuid.UUID, bundleType models.BundleType, capacity, price float64, recipientNumber string, metadata models.JSON) (*models.Order, error) {
	order := models.Order{
		UserID:          userID,
		Reference:       utils.GenerateOrderReference(bundleType),
		BundleType:      bundleType,
		Capacity:        capacity,
		Price:           price,
		RecipientNumber: recipientNumber,
		Status:          models.OrderStatusPending,
		MetaData:        metadata,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("error creating order: %w", err)
	}
	return &order, nil
}

// transitionTx moves an order between states inside an existing transaction.
// The status update is conditional on the expected current status so that a
// concurrent transition of the same order cannot be applied twice.
func (s *OrderService) transitionTx(tx *gorm.DB, order *models.Order, newStatus models.OrderStatus, actor *wallet.Actor, reason string) error {
	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now(),
	}
	if newStatus == models.OrderStatusCompleted && order.CompletedAt == nil {
		now := time.Now()
		updates["completed_at"] = now
		order.CompletedAt = &now
	}
	if newStatus == models.OrderStatusFailed && reason != "" {
		updates["failure_reason"] = reason
		order.FailureReason = reason
	}

	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("error updating order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Someone transitioned the order since we loaded it
		return ErrInvalidTransition
	}

	change := models.OrderStatusChange{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   newStatus,
		Reason:     reason,
	}
	if actor != nil {
		change.ActorID = &actor.ID
		change.ActorRole = actor.Role
	}
	if err := tx.Create(&change).Error; err != nil {
		return fmt.Errorf("error recording status change: %w", err)
	}

	order.Status = newStatus
	return nil
}

// loadUser fetches the purchasing user
func (s *OrderService) loadUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}

// currentSettings loads the admin settings, defaulting to everything open
// when no settings source is wired
func (s *OrderService) currentSettings() (*models.AdminSettings, error) {
	if s.settings == nil {
		return &models.AdminSettings{
			OrderingEnabled:  true,
			MTNAvailable:     true,
			ATAvailable:      true,
			TelecelAvailable: true,
			AfAAvailable:     true,
		}, nil
	}
	return s.settings.Get()
}
