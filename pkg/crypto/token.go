package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the number of random bytes used for high-entropy tokens
// (capability tokens). 32 bytes = 256 bits,
// matching the ≥256-bit requirement for capability tokens.
const TokenBytes = 32

// NewToken returns a URL-safe, base64-encoded, CSPRNG-backed random token
// with at least 256 bits of entropy. Used wherever the core needs an
// unforgeable opaque string (capability tokens).
func NewToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("crypto: token generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
