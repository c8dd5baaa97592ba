package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{
		"0241234567",
		"0551234567",
		"233241234567",
		"+233241234567",
		" 0241234567 ",
	}
	for _, number := range valid {
		assert.True(t, ValidPhoneNumber(number), "expected valid: %q", number)
	}

	invalid := []string{
		"",
		"024123456",     // too short
		"02412345678",   // too long
		"1241234567",    // wrong leading digit
		"23324123456",   // international form too short
		"024-123-4567",  // punctuation
		"notanumber",
	}
	for _, number := range invalid {
		assert.False(t, ValidPhoneNumber(number), "expected invalid: %q", number)
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	assert.Equal(t, "0241234567", NormalizePhoneNumber("0241234567"))
	assert.Equal(t, "0241234567", NormalizePhoneNumber("233241234567"))
	assert.Equal(t, "0241234567", NormalizePhoneNumber("+233241234567"))
	assert.Equal(t, "0241234567", NormalizePhoneNumber(" 0241234567 "))
}
