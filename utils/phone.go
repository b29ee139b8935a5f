package utils

import (
	"regexp"
	"strings"
)

// Moroccan country code; WhatsApp numbers are stored as 212XXXXXXXXX.
const whatsappCountryCode = "212"

var nonDigits = regexp.MustCompile(`\D`)

// ValidateWhatsappNumber checks the local form entered in settings:
// exactly 9 digits, no country code.
func ValidateWhatsappNumber(number string) bool {
	matched, _ := regexp.MatchString(`^\d{9}$`, number)
	return matched
}

// NormalizeWhatsappNumber converts user input to the stored form: strip
// non-digits and leading zeros, then ensure the 212 prefix.
func NormalizeWhatsappNumber(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, whatsappCountryCode) {
		return digits
	}
	digits = strings.TrimLeft(digits, "0")
	return whatsappCountryCode + digits
}

// LocalWhatsappNumber strips the country code for display in forms,
// mirroring how settings pages edit the 9 local digits only.
func LocalWhatsappNumber(number string) string {
	if strings.HasPrefix(number, whatsappCountryCode) {
		return number[len(whatsappCountryCode):]
	}
	return number
}
