package vault

import "errors"

var (
	// ErrInvalidKey marks missing or malformed key material. It is a startup
	// configuration failure, never a per-request one.
	ErrInvalidKey = errors.New("vault: invalid key material")
	// ErrPlaintextEmpty indicates an empty plaintext input.
	ErrPlaintextEmpty = errors.New("vault: plaintext is empty")
	// ErrCiphertextMalformed indicates a ciphertext that is not ours.
	ErrCiphertextMalformed = errors.New("vault: malformed ciphertext")
	// ErrUnknownKeyVersion indicates a ciphertext sealed with a key we no longer have.
	ErrUnknownKeyVersion = errors.New("vault: unknown key version")
	// ErrDecryptFailed hides whether the key, the scope or the payload was wrong.
	ErrDecryptFailed = errors.New("vault: decrypt failed")
)

// Encryptor seals and opens secrets bound to a Scope.
type Encryptor interface {
	Encrypt(plaintext string, scope Scope) (ciphertext string, err error)
	Decrypt(ciphertext string, scope Scope) (plaintext string, err error)
}

// KeyProvider hands out 32-byte AES keys. Version is written into every
// ciphertext so older keys stay usable after rotation.
type KeyProvider interface {
	CurrentVersion() uint16
	Key(version uint16, scope Scope) ([]byte, error)
}
