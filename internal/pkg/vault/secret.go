package vault

import (
	"crypto/rand"
	"fmt"
)

// DefaultSecretLength is the number of Base32 characters in a generated
// secret (160 bits).
const DefaultSecretLength = 32

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// RandomSecret returns length characters drawn uniformly from the Base32
// alphabet. 256 is a multiple of 32, so b%32 has no modulo bias.
func RandomSecret(length int) (string, error) {
	if length <= 0 {
		length = DefaultSecretLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("vault: random secret: %w", err)
	}

	for i, b := range buf {
		buf[i] = base32Alphabet[b%32]
	}

	return string(buf), nil
}
