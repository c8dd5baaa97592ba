package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminSettings holds the platform feature toggles. There is a single row;
// it is loaded per request through the settings cache rather than read from
// ambient global state.
type AdminSettings struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderingEnabled  bool      `gorm:"default:true" json:"ordering_enabled"`
	MTNAvailable     bool      `gorm:"default:true" json:"mtn_available"`
	ATAvailable      bool      `gorm:"default:true" json:"at_available"`
	TelecelAvailable bool      `gorm:"default:true" json:"telecel_available"`
	AfAAvailable     bool      `gorm:"default:true" json:"afa_available"`
	SMSSenderID      string    `gorm:"type:varchar(11);default:'DataMart'" json:"sms_sender_id"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (s *AdminSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NetworkAvailable reports whether ordering is open for the bundle type's
// network
func (s *AdminSettings) NetworkAvailable(t BundleType) bool {
	if !s.OrderingEnabled {
		return false
	}
	switch t {
	case BundleTypeMTNUp2U, BundleTypeMTNFibre, BundleTypeMTNJust4U:
		return s.MTNAvailable
	case BundleTypeATiShare:
		return s.ATAvailable
	case BundleTypeTelecel:
		return s.TelecelAvailable
	case BundleTypeAfA:
		return s.AfAAvailable
	}
	return true
}
