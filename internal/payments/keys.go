// Package payments integrates the external payment gateway: key management,
// order creation and payment status lookups.
package payments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys are the gateway API credentials. Mode distinguishes test keys from
// live ones; it never changes request behavior, only what the admin sees.
type Keys struct {
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
	Mode      string `json:"mode"`
}

// KeyStore persists gateway keys in a JSON file beside the data files.
type KeyStore struct {
	mu   sync.RWMutex
	path string
}

// NewKeyStore constructs a store rooted at path.
func NewKeyStore(path string) *KeyStore {
	return &KeyStore{path: path}
}

// Save writes the keys atomically.
func (s *KeyStore) Save(keys Keys) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("payments: marshal keys: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("payments: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".keys-*")
	if err != nil {
		return fmt.Errorf("payments: temp keys file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("payments: write keys: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("payments: close keys: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("payments: replace keys: %w", err)
	}
	return nil
}

// Load reads the keys. ErrNoKeys when no file has been saved yet.
func (s *KeyStore) Load() (Keys, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Keys{}, ErrNoKeys
	}
	if err != nil {
		return Keys{}, fmt.Errorf("payments: read keys: %w", err)
	}
	var keys Keys
	if err := json.Unmarshal(data, &keys); err != nil {
		return Keys{}, fmt.Errorf("payments: parse keys: %w", err)
	}
	if keys.KeyID == "" || keys.KeySecret == "" {
		return Keys{}, ErrNoKeys
	}
	return keys, nil
}
