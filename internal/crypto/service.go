package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const keySize = 32 // AES-256

// Service provides authenticated encryption for sensitive string fields.
// Blobs are nonce || ciphertext || tag as produced by AES-GCM. The empty
// string encrypts to the absent sentinel (nil) instead of a real ciphertext.
type Service struct {
	keys   KeyStore
	logger *zap.Logger

	mu     sync.Mutex
	cached cipher.AEAD
}

// NewService creates an encryption service over the given key store.
// The master key is created lazily on first use.
func NewService(keys KeyStore, logger *zap.Logger) *Service {
	return &Service{
		keys:   keys,
		logger: logger,
	}
}

// Encrypt seals a plaintext string under the master key with a fresh random
// nonce. Empty input returns nil, the absent sentinel.
func (s *Service) Encrypt(plaintext string) ([]byte, error) {
	if plaintext == "" {
		return nil, nil
	}
	return s.EncryptBytes([]byte(plaintext))
}

// Decrypt opens a blob produced by Encrypt. The absent sentinel decrypts to
// the empty string. Returns ErrFormat for malformed blobs and ErrIntegrity
// when authentication fails.
func (s *Service) Decrypt(blob []byte) (string, error) {
	plaintext, err := s.DecryptBytes(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptBytes seals raw bytes; empty input returns the absent sentinel
func (s *Service) EncryptBytes(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, nil
	}

	aead, err := s.getOrCreateAEAD()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptBytes opens a blob produced by EncryptBytes
func (s *Service) DecryptBytes(blob []byte) ([]byte, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	aead, err := s.getOrCreateAEAD()
	if err != nil {
		return nil, err
	}

	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: blob too short", ErrFormat)
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrIntegrity
	}

	return plaintext, nil
}

// HasKey reports whether a master key exists in the key store
func (s *Service) HasKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return true
	}
	_, err := s.keys.Load()
	return err == nil
}

// ExportKey returns the master key as base64 for backup.
// Handle with care; this is the key to every encrypted field.
func (s *Service) ExportKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.loadOrCreateKeyLocked()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// ImportKey replaces the master key with a base64-encoded 32-byte key.
// Fails with ErrInvalidKey before any state mutation when the length is wrong.
func (s *Service) ImportKey(encoded string) error {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: not valid base64", ErrInvalidKey)
	}
	if len(key) != keySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, keySize, len(key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keys.Save(key); err != nil {
		return err
	}

	aead, err := newAEAD(key)
	if err != nil {
		return err
	}
	s.cached = aead

	s.logger.Info("Encryption key imported")
	return nil
}

// DeleteKey irreversibly removes the master key. Every previously encrypted
// field becomes permanently unrecoverable; callers must confirm explicitly.
func (s *Service) DeleteKey() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keys.Delete(); err != nil {
		return err
	}
	s.cached = nil

	s.logger.Warn("Encryption key deleted, previously encrypted data is unrecoverable")
	return nil
}

func (s *Service) getOrCreateAEAD() (cipher.AEAD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	key, err := s.loadOrCreateKeyLocked()
	if err != nil {
		return nil, err
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	s.cached = aead
	return aead, nil
}

func (s *Service) loadOrCreateKeyLocked() ([]byte, error) {
	key, err := s.keys.Load()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return nil, err
	}

	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := s.keys.Save(key); err != nil {
		return nil, err
	}

	s.logger.Info("Generated new encryption key")
	return key, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return cipher.NewGCM(block)
}
