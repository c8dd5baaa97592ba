package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ValidOrderStatus reports whether the given status is a known state
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusFailed, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusRefunded
}

// ValidTransition enforces the order state machine:
//
//	pending    -> processing | completed | failed | refunded
//	processing -> completed | failed
//	failed     -> refunded
//
// completed and refunded are terminal, and no order re-enters pending.
func ValidTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCompleted ||
			to == OrderStatusFailed || to == OrderStatusRefunded
	case OrderStatusProcessing:
		return to == OrderStatusCompleted || to == OrderStatusFailed
	case OrderStatusFailed:
		return to == OrderStatusRefunded
	}
	return false
}

// Order represents a bundle purchase. The price is captured at placement and
// immutable thereafter; orders are never deleted.
type Order struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"-"`
	Reference       string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference"`
	BundleType      BundleType     `gorm:"type:varchar(30);not null;index" json:"bundle_type"`
	Capacity        float64        `gorm:"type:decimal(10,2);not null" json:"capacity"`
	Price           float64        `gorm:"type:decimal(20,8);not null" json:"price"`
	RecipientNumber string         `gorm:"type:varchar(20);not null" json:"recipient_number"`
	Status          OrderStatus    `gorm:"type:varchar(20);not null;index" json:"status"`
	APIReference    string         `gorm:"type:varchar(100)" json:"api_reference,omitempty"`
	FailureReason   string         `gorm:"type:text" json:"failure_reason,omitempty"`
	MetaData        JSON           `gorm:"type:jsonb" json:"metadata"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	StatusHistory []OrderStatusChange `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderStatusChange is one audit-trail entry recording who moved an order
// between states and why
type OrderStatusChange struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID   `gorm:"type:uuid;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ActorID    *uuid.UUID  `gorm:"type:uuid" json:"actor_id,omitempty"`
	ActorRole  Role        `gorm:"type:varchar(20)" json:"actor_role,omitempty"`
	Reason     string      `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (c *OrderStatusChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
