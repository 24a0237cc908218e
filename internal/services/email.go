package services

import (
	"net/mail"
	"strings"
)

// NormEmail canonicalizes a registrant email to the bare lower-case address.
// Display-name forms ("Jane <jane@example.com>") reduce to the address part.
func NormEmail(s string) (string, bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return strings.ToLower(addr.Address), true
}
