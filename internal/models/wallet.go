package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Currency represents supported currencies
type Currency string

const (
	CurrencyGHS Currency = "GHS"
	CurrencyNGN Currency = "NGN"
)

// Transaction types recorded against a wallet
const (
	TransactionTypePurchase    = "purchase"
	TransactionTypeDeposit     = "deposit"
	TransactionTypeRefund      = "refund"
	TransactionTypeAdminCredit = "admin_credit"
	TransactionTypeAdminDebit  = "admin_debit"
	TransactionTypeReward      = "reward"
)

// Wallet represents a user's prepaid wallet. The balance is mutated only by
// the wallet service, and every mutation is paired with a Transaction record
// created in the same database transaction.
type Wallet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Currency  Currency       `gorm:"type:varchar(3);not null;default:'GHS'" json:"currency"`
	Balance   float64        `gorm:"type:decimal(20,8);default:0" json:"balance"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Transaction represents a wallet ledger entry. Entries are append-only:
// once completed they are never mutated.
type Transaction struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	WalletID      uuid.UUID      `gorm:"type:uuid;index" json:"wallet_id"`
	Wallet        Wallet         `gorm:"foreignKey:WalletID" json:"-"`
	UserID        uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	OrderID       *uuid.UUID     `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Type          string         `gorm:"type:varchar(50);not null" json:"type"`
	Amount        float64        `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency      Currency       `gorm:"type:varchar(3);not null" json:"currency"`
	Status        string         `gorm:"type:varchar(20);not null" json:"status"`
	Reference     string         `gorm:"type:varchar(100);uniqueIndex" json:"reference"`
	Description   string         `gorm:"type:text" json:"description"`
	BalanceBefore float64        `gorm:"type:decimal(20,8)" json:"balance_before"`
	BalanceAfter  float64        `gorm:"type:decimal(20,8)" json:"balance_after"`
	ActorID       *uuid.UUID     `gorm:"type:uuid" json:"actor_id,omitempty"`
	ActorRole     Role           `gorm:"type:varchar(20)" json:"actor_role,omitempty"`
	MetaData      JSON           `gorm:"type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
