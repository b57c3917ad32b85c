package validation

import (
	"fmt"
	"net/mail"
	"unicode/utf8"
)

// Input length limits.
const (
	MaxNameLength    = 255
	MaxEmailLength   = 320
	MaxPhoneLength   = 40
	MaxMessageLength = 100000
)

// Name checks a customer name field. Empty values pass.
func Name(field, value string) error {
	if n := utf8.RuneCountInString(value); n > MaxNameLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters (got %d)", field, MaxNameLength, n)
	}
	return nil
}

// Email checks length and address syntax. Empty values pass. Display-name
// forms such as "Jane <jane@example.com>" are rejected.
func Email(value string) error {
	if value == "" {
		return nil
	}
	if n := utf8.RuneCountInString(value); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return fmt.Errorf("invalid email address %q", value)
	}
	return nil
}

// Phone allows digits, spaces, dashes, dots, parentheses and a leading +,
// and requires at least one digit. Empty values pass.
func Phone(value string) error {
	if value == "" {
		return nil
	}
	if n := utf8.RuneCountInString(value); n > MaxPhoneLength {
		return fmt.Errorf("phone number exceeds maximum length of %d characters (got %d)", MaxPhoneLength, n)
	}
	digits := 0
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return fmt.Errorf("invalid phone number: unexpected character %q", r)
		}
	}
	if digits == 0 {
		return fmt.Errorf("invalid phone number: no digits")
	}
	return nil
}

// Message checks the byte size of reply and note text.
func Message(text string) error {
	if len(text) > MaxMessageLength {
		return fmt.Errorf("text exceeds maximum size of %d bytes (got %d)", MaxMessageLength, len(text))
	}
	return nil
}
