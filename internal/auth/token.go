package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// NewToken returns a hex-encoded opaque token with 256 bits of entropy.
// Session tokens and edit-pack capability tokens are both generated here;
// both must be unguessable and carry no structure.
func NewToken() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// randomHex returns a hex string generated from n bytes of cryptographically
// secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
