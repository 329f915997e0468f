package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Ciphertext layout before base64:
// [0..1]   uint16 key version
// [2..13]  12-byte nonce
// [14..]   gcm.Seal output (ciphertext + tag)
const (
	versionSize = 2
	nonceSize   = 12
	headerSize  = versionSize + nonceSize
)

// AESGCM implements Encryptor with AES-256-GCM.
type AESGCM struct {
	keys KeyProvider
}

// NewAESGCM checks that keys can produce a usable current key.
func NewAESGCM(keys KeyProvider) (*AESGCM, error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: no key provider", ErrInvalidKey)
	}

	key, err := keys.Key(keys.CurrentVersion(), Scope{Purpose: PurposeOTPSeed})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key is %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	return &AESGCM{keys: keys}, nil
}

func (e *AESGCM) Encrypt(plaintext string, scope Scope) (string, error) {
	if plaintext == "" {
		return "", ErrPlaintextEmpty
	}

	version := e.keys.CurrentVersion()
	gcm, err := e.gcm(version, scope)
	if err != nil {
		return "", err
	}

	out := make([]byte, headerSize, headerSize+len(plaintext)+gcm.Overhead())
	binary.BigEndian.PutUint16(out[:versionSize], version)
	if _, err := rand.Read(out[versionSize:headerSize]); err != nil {
		return "", fmt.Errorf("vault: nonce: %w", err)
	}

	out = gcm.Seal(out, out[versionSize:headerSize], []byte(plaintext), scope.aad())

	return base64.StdEncoding.EncodeToString(out), nil
}

func (e *AESGCM) Decrypt(ciphertext string, scope Scope) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil || len(raw) <= headerSize {
		return "", ErrCiphertextMalformed
	}

	gcm, err := e.gcm(binary.BigEndian.Uint16(raw[:versionSize]), scope)
	if err != nil {
		return "", err
	}

	plain, err := gcm.Open(nil, raw[versionSize:headerSize], raw[headerSize:], scope.aad())
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plain), nil
}

func (e *AESGCM) gcm(version uint16, scope Scope) (cipher.AEAD, error) {
	key, err := e.keys.Key(version, scope)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("vault: aes init: %w", err)
	}

	return cipher.NewGCMWithNonceSize(block, nonceSize)
}
