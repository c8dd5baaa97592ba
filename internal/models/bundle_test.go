package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceForRole(t *testing.T) {
	bundle := Bundle{
		Type:     BundleTypeMTNUp2U,
		Capacity: 5,
		Price:    30,
		RolePrices: JSON{
			"agent":       25.0,
			"super_agent": 22.5,
			"broken":      "not a number",
			"zeroed":      0.0,
		},
	}

	assert.Equal(t, 25.0, bundle.PriceForRole(RoleAgent))
	assert.Equal(t, 22.5, bundle.PriceForRole(RoleSuperAgent))
	// No override configured falls back to the base price
	assert.Equal(t, 30.0, bundle.PriceForRole(RoleUser))
	// Malformed or non-positive overrides also fall back
	assert.Equal(t, 30.0, bundle.PriceForRole(Role("broken")))
	assert.Equal(t, 30.0, bundle.PriceForRole(Role("zeroed")))
}

func TestPriceForRoleWithoutOverrides(t *testing.T) {
	bundle := Bundle{Price: 12}
	assert.Equal(t, 12.0, bundle.PriceForRole(RoleAgent))
}

func TestBundleTypeNetwork(t *testing.T) {
	assert.Equal(t, "MTN", BundleTypeMTNUp2U.Network())
	assert.Equal(t, "MTN", BundleTypeMTNFibre.Network())
	assert.Equal(t, "AT", BundleTypeATiShare.Network())
	assert.Equal(t, "TELECEL", BundleTypeTelecel.Network())
	assert.Equal(t, "OTHER", BundleTypeAfA.Network())
}

func TestValidBundleType(t *testing.T) {
	assert.True(t, ValidBundleType(BundleTypeMTNUp2U))
	assert.True(t, ValidBundleType(BundleTypeAfA))
	assert.False(t, ValidBundleType("vodafone-legacy"))
}
