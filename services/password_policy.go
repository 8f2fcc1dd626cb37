package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Password requirements
const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// ValidatePassword checks the length bounds accepted at registration
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters long", MaxPasswordLength)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password must not be blank")
	}
	return nil
}
