package validation

import (
	"errors"
	"strings"
)

// Substrings that make a password trivially guessable regardless of
// length. Matched case-insensitively.
var weakFragments = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// ValidatePassword checks a candidate password for account
// registration and resets: at least 12 characters, at most 72 bytes
// (bcrypt truncates beyond that), and free of well-known weak
// fragments.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, fragment := range weakFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
