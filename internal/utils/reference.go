package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/datamartgh/backend/internal/models"
)

const refCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// GenerateReference generates a unique reference for transactions
func GenerateReference(prefix string) string {
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", prefix, timestamp, randomFrom(refCharset, 8))
}

// GenerateOrderReference generates an externally shareable order reference.
// MTN products use a plain numeric reference because the delivery gateway
// requires digits only; other bundle types carry a network prefix.
func GenerateOrderReference(bundleType models.BundleType) string {
	switch bundleType {
	case models.BundleTypeMTNUp2U, models.BundleTypeMTNFibre, models.BundleTypeMTNJust4U:
		return randomFrom("0123456789", 10)
	case models.BundleTypeAfA:
		return fmt.Sprintf("AFA-%s", randomFrom(refCharset, 8))
	default:
		return fmt.Sprintf("%s-%s", bundleType.Network(), randomFrom(refCharset, 8))
	}
}
