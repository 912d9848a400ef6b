package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// TokenLength is the number of hex characters in a bearer token.
const TokenLength = 64

// NewBearerToken returns a cryptographically random hex token suitable for
// invitation and account-claim links.
func NewBearerToken() string {
	bytes := make([]byte, TokenLength/2)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}
