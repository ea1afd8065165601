package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail validates a login email address. Callers normalize
// (trim, lowercase) before validating.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321 caps the full address at 254 characters
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	// ParseAddress accepts display-name forms like "Aki <a@b.io>";
	// a login identifier must be the bare address.
	if addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
