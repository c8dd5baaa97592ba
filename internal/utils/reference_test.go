package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datamartgh/backend/internal/models"
)

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference("TXN")
	assert.True(t, strings.HasPrefix(ref, "TXN_"))

	parts := strings.Split(ref, "_")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[1], 8) // date component
	assert.Len(t, parts[2], 8) // random component

	assert.NotEqual(t, ref, GenerateReference("TXN"))
}

func TestGenerateOrderReference(t *testing.T) {
	// MTN references must be all digits for the delivery gateway
	for _, bt := range []models.BundleType{
		models.BundleTypeMTNUp2U, models.BundleTypeMTNFibre, models.BundleTypeMTNJust4U,
	} {
		ref := GenerateOrderReference(bt)
		assert.Len(t, ref, 10, "bundle type %s", bt)
		for _, r := range ref {
			assert.True(t, r >= '0' && r <= '9', "non-digit in MTN reference %q", ref)
		}
	}

	afa := GenerateOrderReference(models.BundleTypeAfA)
	assert.True(t, strings.HasPrefix(afa, "AFA-"))

	telecel := GenerateOrderReference(models.BundleTypeTelecel)
	assert.True(t, strings.HasPrefix(telecel, "TELECEL-"))

	at := GenerateOrderReference(models.BundleTypeATiShare)
	assert.True(t, strings.HasPrefix(at, "AT-"))
}
