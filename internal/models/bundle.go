package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BundleType identifies a product line in the catalog
type BundleType string

const (
	BundleTypeMTNUp2U   BundleType = "mtnup2u"
	BundleTypeMTNFibre  BundleType = "mtn-fibre"
	BundleTypeMTNJust4U BundleType = "mtn-justforu"
	BundleTypeATiShare  BundleType = "AT-ishare"
	BundleTypeTelecel   BundleType = "Telecel-5959"
	BundleTypeAfA       BundleType = "AfA-registration"
	BundleTypeOther     BundleType = "other"
)

// ValidBundleType reports whether the given type is part of the catalog
func ValidBundleType(t BundleType) bool {
	switch t {
	case BundleTypeMTNUp2U, BundleTypeMTNFibre, BundleTypeMTNJust4U,
		BundleTypeATiShare, BundleTypeTelecel, BundleTypeAfA, BundleTypeOther:
		return true
	}
	return false
}

// Network returns the provider network key used by the delivery gateway
func (t BundleType) Network() string {
	switch t {
	case BundleTypeMTNUp2U, BundleTypeMTNFibre, BundleTypeMTNJust4U:
		return "MTN"
	case BundleTypeATiShare:
		return "AT"
	case BundleTypeTelecel:
		return "TELECEL"
	default:
		return "OTHER"
	}
}

// Bundle is a catalog entry: a data capacity sold at a base price with
// optional per-role overrides. Capacity is stored in gigabytes.
type Bundle struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Type       BundleType     `gorm:"type:varchar(30);not null;index:idx_bundles_type_capacity" json:"type"`
	Capacity   float64        `gorm:"type:decimal(10,2);not null;index:idx_bundles_type_capacity" json:"capacity"`
	Price      float64        `gorm:"type:decimal(20,8);not null" json:"price"`
	RolePrices JSON           `gorm:"type:jsonb" json:"role_prices"`
	Slug       string         `gorm:"type:varchar(100);uniqueIndex" json:"slug"`
	Active     bool           `gorm:"default:true" json:"active"`
	CreatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the database default is unavailable
func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// PriceForRole resolves the charge amount for a requesting role. It returns
// the role-specific price when one is configured, falling back to the base
// price when the override is missing, non-numeric or non-positive.
func (b *Bundle) PriceForRole(role Role) float64 {
	if b.RolePrices == nil {
		return b.Price
	}
	raw, ok := b.RolePrices[string(role)]
	if !ok {
		return b.Price
	}
	price, ok := raw.(float64)
	if !ok || price <= 0 {
		return b.Price
	}
	return price
}
