package vault

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// ParseKey decodes base64 key material and checks its length.
func ParseKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not base64: %w", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	return key, nil
}

// StaticKeyProvider serves one key as version 1.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider copies key; it must be KeySize bytes.
func NewStaticKeyProvider(key []byte) (*StaticKeyProvider, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	return &StaticKeyProvider{key: append([]byte(nil), key...)}, nil
}

func (p *StaticKeyProvider) CurrentVersion() uint16 { return 1 }

func (p *StaticKeyProvider) Key(version uint16, _ Scope) ([]byte, error) {
	if version != 1 {
		return nil, ErrUnknownKeyVersion
	}

	return append([]byte(nil), p.key...), nil
}

// HKDFKeyProvider derives one key per version and purpose from a master key
// with HKDF-SHA256. Bumping current rotates new writes while every version up
// to current stays readable.
type HKDFKeyProvider struct {
	master  []byte
	salt    []byte
	current uint16
}

// NewHKDFKeyProvider returns a provider writing with version current (>= 1).
func NewHKDFKeyProvider(master, salt []byte, current uint16) (*HKDFKeyProvider, error) {
	if len(master) < KeySize {
		return nil, fmt.Errorf("%w: master key is %d bytes, want at least %d", ErrInvalidKey, len(master), KeySize)
	}
	if current == 0 {
		return nil, fmt.Errorf("%w: key version must start at 1", ErrInvalidKey)
	}

	return &HKDFKeyProvider{
		master:  append([]byte(nil), master...),
		salt:    append([]byte(nil), salt...),
		current: current,
	}, nil
}

func (p *HKDFKeyProvider) CurrentVersion() uint16 { return p.current }

func (p *HKDFKeyProvider) Key(version uint16, scope Scope) ([]byte, error) {
	if version == 0 || version > p.current {
		return nil, ErrUnknownKeyVersion
	}

	info := fmt.Sprintf("smartotp/vault/%s/v%d", scope.Purpose, version)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, p.master, p.salt, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("vault: derive key: %w", err)
	}

	return key, nil
}
