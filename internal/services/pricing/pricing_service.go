package pricing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/datamartgh/backend/internal/models"
)

// ErrBundleNotFound is returned when no active bundle matches type+capacity
var ErrBundleNotFound = errors.New("bundle not found")

// PricingService resolves charge amounts from the bundle catalog. It is
// read-only and is always consulted before a wallet transaction opens, so a
// missing bundle aborts early without side effects.
type PricingService struct {
	db *gorm.DB
}

// NewPricingService creates a new pricing service
func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// FindBundle looks up the active bundle for a type and capacity
func (s *PricingService) FindBundle(bundleType models.BundleType, capacity float64) (*models.Bundle, error) {
	var bundle models.Bundle
	err := s.db.Where("type = ? AND capacity = ? AND active = ?", bundleType, capacity, true).First(&bundle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, fmt.Errorf("error finding bundle: %w", err)
	}
	return &bundle, nil
}

// ResolvePrice returns the charge amount for a bundle and requesting role.
// Role-specific prices take precedence; the base price is the fallback.
func (s *PricingService) ResolvePrice(bundleType models.BundleType, capacity float64, role models.Role) (float64, error) {
	bundle, err := s.FindBundle(bundleType, capacity)
	if err != nil {
		return 0, err
	}
	return bundle.PriceForRole(role), nil
}

// PriceMap returns capacity -> charge amount for every active bundle of the
// given type, resolved for one role. Bulk ordering prices entries from this
// map instead of querying the catalog per line.
func (s *PricingService) PriceMap(bundleType models.BundleType, role models.Role) (map[float64]float64, error) {
	var bundles []models.Bundle
	if err := s.db.Where("type = ? AND active = ?", bundleType, true).Find(&bundles).Error; err != nil {
		return nil, fmt.Errorf("error listing bundles: %w", err)
	}

	prices := make(map[float64]float64, len(bundles))
	for i := range bundles {
		prices[bundles[i].Capacity] = bundles[i].PriceForRole(role)
	}
	return prices, nil
}
