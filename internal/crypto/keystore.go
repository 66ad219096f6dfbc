package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// KeyStore persists the master key outside any data file
type KeyStore interface {
	// Load returns the stored key, or ErrKeyNotFound
	Load() ([]byte, error)

	// Save stores the key, replacing any existing one
	Save(key []byte) error

	// Delete removes the stored key. Deleting a missing key is not an error.
	Delete() error
}

// KeyringStore stores the master key in the OS credential store
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore creates a key store backed by the OS keyring
func NewKeyringStore(service, account string) *KeyringStore {
	return &KeyringStore{service: service, account: account}
}

func (s *KeyringStore) Load() ([]byte, error) {
	encoded, err := keyring.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyStore, err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: stored key is not base64", ErrKeyStore)
	}
	return key, nil
}

func (s *KeyringStore) Save(key []byte) error {
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := keyring.Set(s.service, s.account, encoded); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	return nil
}

func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(s.service, s.account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	return nil
}

// FileKeyStore stores the master key in a mode-0600 file. Used on systems
// without a usable keyring and in tests.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a file-backed key store
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

func (s *FileKeyStore) Load() ([]byte, error) {
	encoded, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyStore, err)
	}

	key, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: stored key is not base64", ErrKeyStore)
	}
	return key, nil
}

func (s *FileKeyStore) Save(key []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(s.path, []byte(encoded), 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	return nil
}

func (s *FileKeyStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrKeyStore, err)
	}
	return nil
}
