package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates the national part is not 9 digits
	ErrInvalidLength = errors.New("phone number must have 9 digits after the country code")

	// ErrInvalidPrefix indicates phone number is not a Kenyan mobile number
	ErrInvalidPrefix = errors.New("phone number must be a Kenyan mobile number (07xx or 01xx)")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles Kenyan phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a Kenyan mobile number.
// Accepts +254712345678, 254712345678 or 0712345678 (spaces and dashes
// allowed) and returns the number in canonical +254XXXXXXXXX form.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	// Strip country code or trunk prefix down to the 9-digit national part
	switch {
	case strings.HasPrefix(sanitized, "254"):
		sanitized = sanitized[3:]
	case strings.HasPrefix(sanitized, "0"):
		sanitized = sanitized[1:]
	}

	if len(sanitized) != 9 {
		return "", ErrInvalidLength
	}

	// Mobile ranges: 7xx (Safaricom, Airtel, Telkom) and 1xx (newer Safaricom blocks)
	if sanitized[0] != '7' && sanitized[0] != '1' {
		return "", ErrInvalidPrefix
	}

	return "+254" + sanitized, nil
}

// Sanitize removes spaces, dashes and a leading + from the phone number
func (v *PhoneValidator) Sanitize(phone string) string {
	cleaned := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}
