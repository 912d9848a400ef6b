package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// IsValidEmail does RFC-5322-ish syntax only (no DNS). mail.ParseAddress is
// surprisingly strict and rejects the usual garbage.
func IsValidEmail(e string) bool {
	_, err := mail.ParseAddress(e)
	return err == nil
}

// NormalizeEmail lowercases and trims an address for uniqueness comparisons.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
