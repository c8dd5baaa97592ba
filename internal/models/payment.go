package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus represents the status of a wallet deposit payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentProvider identifies an external payment gateway
type PaymentProvider string

const (
	PaymentProviderPaystack PaymentProvider = "paystack"
)

// Payment represents a wallet top-up in flight with an external payment
// gateway. The wallet is credited only after the provider confirms the
// payment, in the same database transaction that marks the payment completed.
type Payment struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID" json:"-"`
	Provider    PaymentProvider `gorm:"type:varchar(20);not null" json:"provider"`
	Amount      float64         `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency    Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Reference   string          `gorm:"type:varchar(100);uniqueIndex" json:"reference"`
	AuthURL     string          `gorm:"type:text" json:"auth_url,omitempty"`
	MetaData    JSON            `gorm:"type:jsonb" json:"metadata"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
