package crypto

import "errors"

var (
	// ErrIntegrity is returned when decryption fails authentication,
	// meaning the blob was tampered with or encrypted under another key
	ErrIntegrity = errors.New("ciphertext failed authentication")

	// ErrFormat is returned when an encrypted blob is malformed
	ErrFormat = errors.New("invalid ciphertext format")

	// ErrInvalidKey is returned when an imported key is not exactly 32 bytes
	ErrInvalidKey = errors.New("invalid encryption key")

	// ErrKeyNotFound is returned by a key store that holds no key
	ErrKeyNotFound = errors.New("encryption key not found")

	// ErrKeyStore wraps failures of the underlying credential store
	ErrKeyStore = errors.New("key store operation failed")
)
