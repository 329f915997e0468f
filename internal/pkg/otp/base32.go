package otp

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBase32 is returned when a secret contains a character outside
// the RFC 4648 Base32 alphabet.
var ErrInvalidBase32 = errors.New("otp: invalid base32 secret")

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// base32Index maps an ASCII byte to its 5-bit value, or -1.
var base32Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		c := base32Alphabet[i]
		idx[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			idx[c+('a'-'A')] = int8(i)
		}
	}
	return idx
}()

// DecodeBase32 decodes text case-insensitively. Trailing '=' padding is
// stripped and any trailing group of fewer than 8 bits is dropped, so
// unpadded secrets of any length are accepted. An '=' elsewhere is invalid.
func DecodeBase32(text string) ([]byte, error) {
	text = strings.TrimRight(text, "=")
	out := make([]byte, 0, len(text)*5/8)

	var buffer uint32
	var bits uint
	for i := 0; i < len(text); i++ {
		c := text[i]
		v := base32Index[c]
		if v < 0 {
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrInvalidBase32, c, i)
		}

		buffer = buffer<<5 | uint32(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= 1<<bits - 1
		}
	}

	return out, nil
}

// EncodeBase32 encodes b with the standard alphabet and no padding.
func EncodeBase32(b []byte) string {
	return encoding.EncodeToString(b)
}
