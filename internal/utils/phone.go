package utils

import (
	"regexp"
	"strings"
)

// Ghanaian mobile numbers: local 0XXXXXXXXX or international 233XXXXXXXXX.
var phonePattern = regexp.MustCompile(`^(0|\+?233)\d{9}$`)

// ValidPhoneNumber reports whether the given string is a Ghanaian mobile number
func ValidPhoneNumber(number string) bool {
	return phonePattern.MatchString(strings.TrimSpace(number))
}

// NormalizePhoneNumber converts a phone number to local 0XXXXXXXXX form
func NormalizePhoneNumber(number string) string {
	number = strings.TrimSpace(number)
	number = strings.TrimPrefix(number, "+")
	if strings.HasPrefix(number, "233") {
		return "0" + number[3:]
	}
	return number
}
