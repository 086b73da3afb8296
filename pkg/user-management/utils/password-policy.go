package utils

import "regexp"

const (
	PASSWORD_MIN_LEN = 8
	PASSWORD_MAX_LEN = 512
)

// PasswordPolicy is the single source of truth for the password rules. Server
// side validation and any client facing rule description derive from here, so
// the pattern is not re-derived in multiple places.
type PasswordPolicy struct {
	MinLen int
	MaxLen int
}

var DefaultPasswordPolicy = PasswordPolicy{
	MinLen: PASSWORD_MIN_LEN,
	MaxLen: PASSWORD_MAX_LEN,
}

var (
	lowercaseRule = regexp.MustCompile(`[a-z]`)
	uppercaseRule = regexp.MustCompile(`[A-Z]`)
	numberRule    = regexp.MustCompile(`\d`)
	symbolRule    = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// IsValid checks length bounds and requires a lowercase letter, an uppercase
// letter, a digit and a special character.
func (p PasswordPolicy) IsValid(password string) bool {
	pl := len(password)
	if pl < p.MinLen || pl > p.MaxLen {
		return false
	}

	return lowercaseRule.MatchString(password) &&
		uppercaseRule.MatchString(password) &&
		numberRule.MatchString(password) &&
		symbolRule.MatchString(password)
}

// Description returns the human readable rule set for API error messages.
func (p PasswordPolicy) Description() string {
	return "password must be at least 8 characters long and contain a lowercase letter, an uppercase letter, a number and a special character"
}
