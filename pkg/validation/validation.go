// Package validation checks operator input for API client registration.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

const (
	minNameLen   = 3
	maxNameLen   = 50
	minSecretLen = 8
	// bcrypt ignores anything past 72 bytes.
	maxSecretLen = 72
)

var (
	clientNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

	reservedNames = map[string]bool{"admin": true, "root": true, "system": true, "default": true}
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// SanitizeString trims whitespace and drops control characters other than
// newline and tab.
func SanitizeString(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
}

// ValidateClientName checks the name of an API client allowed to request
// tokens.
func ValidateClientName(name string) error {
	name = SanitizeString(name)

	switch {
	case name == "":
		return invalid("client name cannot be empty")
	case len(name) < minNameLen:
		return invalid("client name must be at least %d characters", minNameLen)
	case len(name) > maxNameLen:
		return invalid("client name must not exceed %d characters", maxNameLen)
	case !clientNameRegex.MatchString(name):
		return invalid("client name must start with alphanumeric and contain only letters, numbers, dots, hyphens, and underscores")
	case reservedNames[strings.ToLower(name)]:
		return invalid("client name is reserved")
	}
	return nil
}

// ValidateSecret checks length and character classes of a client secret and
// reports every missing class at once.
func ValidateSecret(secret string) error {
	if len(secret) < minSecretLen {
		return invalid("secret must be at least %d characters", minSecretLen)
	}
	if len(secret) > maxSecretLen {
		return invalid("secret must not exceed %d bytes", maxSecretLen)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range secret {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "an uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "a lowercase letter")
	}
	if !hasNumber {
		missing = append(missing, "a number")
	}
	if !hasSpecial {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return invalid("secret must contain %s", strings.Join(missing, ", "))
	}
	return nil
}
