package phone

import (
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// IsValidE164 reports whether phone is a well-formed E.164 number,
// e.g. +12345678901.
func IsValidE164(phone string) bool {
	return e164Regex.MatchString(phone)
}

// Mask hides the middle of a phone number for log output, keeping the
// country code and the last four digits.
func Mask(phone string) string {
	if len(phone) < 8 {
		return phone
	}

	middle := len(phone) - 6
	if middle > 7 {
		middle = 7
	}

	return phone[:2] + strings.Repeat("*", middle) + phone[len(phone)-4:]
}
