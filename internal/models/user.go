package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a user's role on the platform
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleWalletAdmin Role = "wallet_admin"
	RoleEditor      Role = "Editor"
	RoleAgent       Role = "agent"
	RoleSuperAgent  Role = "super_agent"
	RoleUser        Role = "user"
)

// ValidRole reports whether the given role is one the platform knows about
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleWalletAdmin, RoleEditor, RoleAgent, RoleSuperAgent, RoleUser:
		return true
	}
	return false
}

// Capabilities is the set of privileged actions a principal may perform.
// It is computed once from the role so handlers and services depend on
// capabilities rather than scattered role string comparisons.
type Capabilities struct {
	CanCreditWallet     bool
	CanDebitWallet      bool
	CanTransitionOrders bool
	CanManageBundles    bool
	CanBroadcastSMS     bool
	CanViewAllOrders    bool
	CanManageSettings   bool
}

// CapabilitiesForRole derives the capability set for a role
func CapabilitiesForRole(role Role) Capabilities {
	switch role {
	case RoleAdmin:
		return Capabilities{
			CanCreditWallet:     true,
			CanDebitWallet:      true,
			CanTransitionOrders: true,
			CanManageBundles:    true,
			CanBroadcastSMS:     true,
			CanViewAllOrders:    true,
			CanManageSettings:   true,
		}
	case RoleWalletAdmin:
		return Capabilities{
			CanCreditWallet: true,
			CanDebitWallet:  true,
		}
	case RoleEditor:
		return Capabilities{
			CanTransitionOrders: true,
			CanViewAllOrders:    true,
		}
	default:
		return Capabilities{}
	}
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	PhoneNumber  string         `gorm:"type:varchar(20);index" json:"phone_number"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
