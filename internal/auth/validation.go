package auth

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s is a bare email address (no display name)
func IsValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// LooksLikeEmail decides whether a login identifier should be resolved by email
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@") && IsValidEmail(identifier)
}
