package store_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walletcore/internal/domain"
	"walletcore/internal/store"
)

func testKeyPair() domain.KeyPair {
	return domain.KeyPair{
		Public:  domain.PublicKey{Key: "xpub-base", Path: "m/1'/1'"},
		Private: domain.PrivateKey{Key: "xprv-base", Path: "m/1'/1'"},
	}
}

func TestBaseKey_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	var keys domain.KeyStore = store.NewKeyFileStore(home)
	kp := testKeyPair()

	if err := keys.SaveBaseKeyPair("pass", kp); err != nil {
		t.Fatalf("save base keypair: %v", err)
	}

	// A fresh instance must read the same key back from disk.
	reopened := store.NewKeyFileStore(home)
	pub, err := reopened.BasePublicKey()
	if err != nil {
		t.Fatalf("base public key: %v", err)
	}
	if !pub.Equal(kp.Public) {
		t.Fatalf("public key mismatch: got %+v", pub)
	}

	priv, err := reopened.LoadBasePrivateKey("pass")
	if err != nil {
		t.Fatalf("load private key: %v", err)
	}
	if priv != kp.Private {
		t.Fatalf("private key mismatch: got %+v", priv)
	}
}

func TestBaseKey_NotInitialized(t *testing.T) {
	keys := store.NewKeyFileStore(t.TempDir())
	if _, err := keys.BasePublicKey(); !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}
	if _, err := keys.LoadBasePrivateKey("pass"); !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}
}

func TestBaseKey_SecondSaveRejected(t *testing.T) {
	keys := store.NewKeyFileStore(t.TempDir())
	if err := keys.SaveBaseKeyPair("pass", testKeyPair()); err != nil {
		t.Fatalf("save: %v", err)
	}
	other := testKeyPair()
	other.Public.Key = "xpub-other"
	if err := keys.SaveBaseKeyPair("pass", other); !errors.Is(err, domain.ErrAlreadyInitialized) {
		t.Fatalf("want ErrAlreadyInitialized, got %v", err)
	}
	pub, _ := keys.BasePublicKey()
	if pub.Key != "xpub-base" {
		t.Fatalf("base key changed to %q", pub.Key)
	}
}

func TestBaseKey_WrongPassphrase_Fails(t *testing.T) {
	keys := store.NewKeyFileStore(t.TempDir())
	if err := keys.SaveBaseKeyPair("correct", testKeyPair()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := keys.LoadBasePrivateKey("wrong"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestSwapServerKey_StoreAndOverwrite(t *testing.T) {
	home := t.TempDir()
	keys := store.NewKeyFileStore(home)
	kp := testKeyPair()
	if err := keys.SaveBaseKeyPair("pass", kp); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok, err := keys.SwapServerKey(); err != nil || ok {
		t.Fatalf("want no swap key yet, got ok=%v err=%v", ok, err)
	}

	first := domain.SwapServerPublicKey{Key: "xpub-swap-1", Path: "m/1'/1'"}
	second := domain.SwapServerPublicKey{Key: "xpub-swap-2", Path: "m/1'/1'"}
	for _, k := range []domain.SwapServerPublicKey{first, second} {
		if err := keys.StoreSwapServerKey(kp.Public, k); err != nil {
			t.Fatalf("store %q: %v", k.Key, err)
		}
	}

	got, ok, err := store.NewKeyFileStore(home).SwapServerKey()
	if err != nil || !ok {
		t.Fatalf("read swap key: ok=%v err=%v", ok, err)
	}
	if got != second {
		t.Fatalf("want %+v, got %+v", second, got)
	}

	entries, err := os.ReadDir(home)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSwapServerKey_StaleBaseRejected(t *testing.T) {
	keys := store.NewKeyFileStore(t.TempDir())
	if err := keys.SaveBaseKeyPair("pass", testKeyPair()); err != nil {
		t.Fatalf("save: %v", err)
	}

	stale := domain.PublicKey{Key: "xpub-rotated-away", Path: "m/1'/1'"}
	err := keys.StoreSwapServerKey(stale, domain.SwapServerPublicKey{Key: "xpub-swap"})
	if !errors.Is(err, domain.ErrStaleKeyResponse) {
		t.Fatalf("want ErrStaleKeyResponse, got %v", err)
	}
	if _, ok, _ := keys.SwapServerKey(); ok {
		t.Fatal("stale key must not be stored")
	}
}

func TestSwapServerKey_RequiresBaseKey(t *testing.T) {
	keys := store.NewKeyFileStore(t.TempDir())
	err := keys.StoreSwapServerKey(testKeyPair().Public, domain.SwapServerPublicKey{Key: "xpub-swap"})
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}
}

func TestSwapServerKey_RecordForOtherBaseIsIgnored(t *testing.T) {
	home := t.TempDir()
	keys := store.NewKeyFileStore(home)
	if err := keys.SaveBaseKeyPair("pass", testKeyPair()); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec := map[string]any{
		"base_public_key": domain.PublicKey{Key: "xpub-someone-else"},
		"swap_server_key": domain.SwapServerPublicKey{Key: "xpub-swap"},
	}
	b, _ := json.Marshal(rec)
	if err := os.WriteFile(filepath.Join(home, "swap_server_key.json"), b, 0o600); err != nil {
		t.Fatalf("write record: %v", err)
	}

	if _, ok, err := keys.SwapServerKey(); err != nil || ok {
		t.Fatalf("want record for another base key ignored, got ok=%v err=%v", ok, err)
	}
}
