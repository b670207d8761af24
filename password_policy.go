package auth

import (
	"strings"
	"unicode/utf8"
)

// Password policy, enumerated literally so the rejection messages stay
// in lockstep with the rules.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	// PasswordSpecialChars is the accepted special character set.
	PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

// Strength failure reasons. ValidatePasswordStrength reports the first
// failing rule only, in the order the rules are declared here.
const (
	ReasonPasswordEmpty     = "password cannot be empty"
	ReasonPasswordTooShort  = "password must be at least 8 characters long"
	ReasonPasswordTooLong   = "password cannot exceed 128 characters"
	ReasonPasswordLowercase = "password must contain at least one lowercase letter"
	ReasonPasswordUppercase = "password must contain at least one uppercase letter"
	ReasonPasswordDigit     = "password must contain at least one digit"
	ReasonPasswordSpecial   = "password must contain at least one special character"
)

// ValidatePasswordStrength checks a password against the policy and
// returns the first failing reason. The check order is fixed: empty,
// min length, max length, lowercase, uppercase, digit, special.
func ValidatePasswordStrength(password string) (bool, string) {
	if password == "" {
		return false, ReasonPasswordEmpty
	}

	// Length bounds count characters, not bytes; multibyte runes must
	// not shrink the allowed budget.
	length := utf8.RuneCountInString(password)

	if length < MinPasswordLength {
		return false, ReasonPasswordTooShort
	}

	if length > MaxPasswordLength {
		return false, ReasonPasswordTooLong
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return false, ReasonPasswordLowercase
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return false, ReasonPasswordUppercase
	}

	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return false, ReasonPasswordDigit
	}

	if !strings.ContainsAny(password, PasswordSpecialChars) {
		return false, ReasonPasswordSpecial
	}

	return true, ""
}
