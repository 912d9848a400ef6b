package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBearerTokenShape(t *testing.T) {
	token := NewBearerToken()
	require.Len(t, token, TokenLength)

	_, err := hex.DecodeString(token)
	require.NoError(t, err, "token must be lowercase hex")
}

func TestNewBearerTokenUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		token := NewBearerToken()
		require.False(t, seen[token], "generated a duplicate token")
		seen[token] = true
	}
}
