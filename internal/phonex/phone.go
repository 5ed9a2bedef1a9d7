// Package phonex normalizes phone numbers and login identifiers to the
// canonical forms used as registry keys.
package phonex

import (
	"regexp"
	"strings"
)

var (
	nonPhoneChars = regexp.MustCompile(`[^+\d]`)
	phonePattern  = regexp.MustCompile(`^\+\d{11}$`)
)

// SimplifyPhone strips every character except digits and a leading plus,
// producing the canonical phone form (e.g. "+7 (911) 123-45-67" becomes
// "+79111234567").
func SimplifyPhone(s string) string {
	return nonPhoneChars.ReplaceAllString(s, "")
}

// ValidatePhone reports whether the canonical form of s is a plus sign
// followed by exactly 11 digits.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(SimplifyPhone(s))
}

// SimplifyLogin derives the canonical lookup key from a raw identifier:
// anything containing '@' is treated as an email and only trimmed,
// everything else is treated as a phone number and canonicalized.
func SimplifyLogin(s string) string {
	if strings.Contains(s, "@") {
		return strings.TrimSpace(s)
	}
	return SimplifyPhone(s)
}
