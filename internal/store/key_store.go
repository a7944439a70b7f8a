package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"walletcore/internal/domain"
	"walletcore/internal/util/memzero"
)

const (
	basePublicFilename  = "base_key.json"
	basePrivateFilename = "base_key.enc"
	swapKeyFilename     = "swap_server_key.json"
)

// swapKeyRecord ties the cached swap-server key to the base key that was
// presented to obtain it.
type swapKeyRecord struct {
	BasePublicKey domain.PublicKey           `json:"base_public_key"`
	SwapServerKey domain.SwapServerPublicKey `json:"swap_server_key"`
	StoredAt      time.Time                  `json:"stored_at"`
}

// KeyFileStore persists the base keypair and the swap-server key to disk.
//
// The public half of the base key is stored in clear so it can be read
// without a passphrase; the private half is sealed with a key derived from
// the passphrase.
type KeyFileStore struct {
	dir string

	mu   sync.RWMutex
	base *domain.PublicKey // cached after first successful read
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir}
}

// SaveBaseKeyPair writes the base keypair. It fails with
// domain.ErrAlreadyInitialized if one was saved before.
func (s *KeyFileStore) SaveBaseKeyPair(passphrase string, kp domain.KeyPair) error {
	if kp.Public.IsZero() || kp.Private.Key == "" {
		return fmt.Errorf("save base keypair: %w", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pubPath := filepath.Join(s.dir, basePublicFilename)
	if _, err := os.Stat(pubPath); err == nil {
		return domain.ErrAlreadyInitialized
	} else if !errors.Is(err, os.ErrNotExist) {
		return &domain.PersistenceError{Op: "save base keypair", Err: err}
	}

	raw, err := json.Marshal(kp.Private)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)
	N, r, p := scryptParamsDefault()
	sealed, err := seal(passphrase, raw, []byte(kp.Public.Key), N, r, p)
	if err != nil {
		return err
	}

	// The public file marks the wallet as initialized, so it goes last.
	if err := writeFile(filepath.Join(s.dir, basePrivateFilename), sealed, 0o600); err != nil {
		return &domain.PersistenceError{Op: "save base private key", Err: err}
	}
	if err := writeJSON(pubPath, kp.Public, 0o600); err != nil {
		return &domain.PersistenceError{Op: "save base public key", Err: err}
	}
	pub := kp.Public
	s.base = &pub
	return nil
}

// BasePublicKey returns the base public key, or domain.ErrNotInitialized.
func (s *KeyFileStore) BasePublicKey() (domain.PublicKey, error) {
	s.mu.RLock()
	if s.base != nil {
		pub := *s.base
		s.mu.RUnlock()
		return pub, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basePublicKeyLocked()
}

func (s *KeyFileStore) basePublicKeyLocked() (domain.PublicKey, error) {
	if s.base != nil {
		return *s.base, nil
	}
	var pub domain.PublicKey
	found, err := readJSON(filepath.Join(s.dir, basePublicFilename), &pub)
	if err != nil {
		return domain.PublicKey{}, &domain.PersistenceError{Op: "read base public key", Err: err}
	}
	if !found || pub.IsZero() {
		return domain.PublicKey{}, domain.ErrNotInitialized
	}
	s.base = &pub
	return pub, nil
}

// LoadBasePrivateKey decrypts and returns the base private key.
func (s *KeyFileStore) LoadBasePrivateKey(passphrase string) (domain.PrivateKey, error) {
	pub, err := s.BasePublicKey()
	if err != nil {
		return domain.PrivateKey{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := readFile(filepath.Join(s.dir, basePrivateFilename))
	if err != nil {
		return domain.PrivateKey{}, &domain.PersistenceError{Op: "read base private key", Err: err}
	}
	if b == nil {
		return domain.PrivateKey{}, domain.ErrNotInitialized
	}
	raw, err := open(passphrase, b, []byte(pub.Key))
	if err != nil {
		return domain.PrivateKey{}, err
	}
	defer memzero.Zero(raw)
	var priv domain.PrivateKey
	if err := json.Unmarshal(raw, &priv); err != nil {
		return domain.PrivateKey{}, err
	}
	return priv, nil
}

// StoreSwapServerKey atomically replaces the cached swap-server key. base is
// the key that was presented to the counterparty; if it is no longer the
// current base key the write is refused with domain.ErrStaleKeyResponse.
func (s *KeyFileStore) StoreSwapServerKey(
	base domain.PublicKey,
	key domain.SwapServerPublicKey,
) error {
	if key.IsZero() {
		return fmt.Errorf("store swap server key: %w", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.basePublicKeyLocked()
	if err != nil {
		return err
	}
	if !current.Equal(base) {
		return domain.ErrStaleKeyResponse
	}

	rec := swapKeyRecord{
		BasePublicKey: base,
		SwapServerKey: key,
		StoredAt:      time.Now().UTC(),
	}
	if err := writeJSON(filepath.Join(s.dir, swapKeyFilename), rec, 0o600); err != nil {
		return &domain.PersistenceError{Op: "store swap server key", Err: err}
	}
	return nil
}

// SwapServerKey returns the cached swap-server key. A key stored for a
// different base key is reported as absent.
func (s *KeyFileStore) SwapServerKey() (domain.SwapServerPublicKey, bool, error) {
	current, err := s.BasePublicKey()
	if errors.Is(err, domain.ErrNotInitialized) {
		return domain.SwapServerPublicKey{}, false, nil
	}
	if err != nil {
		return domain.SwapServerPublicKey{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec swapKeyRecord
	found, err := readJSON(filepath.Join(s.dir, swapKeyFilename), &rec)
	if err != nil {
		return domain.SwapServerPublicKey{}, false, &domain.PersistenceError{
			Op:  "read swap server key",
			Err: err,
		}
	}
	if !found || rec.SwapServerKey.IsZero() || !current.Equal(rec.BasePublicKey) {
		return domain.SwapServerPublicKey{}, false, nil
	}
	return rec.SwapServerKey, true, nil
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
