package app

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"walletcore/internal/store"
	"walletcore/internal/store/sqlstore"
)

func testConfig(t *testing.T, backend string) Config {
	t.Helper()
	return Config{
		Home:           filepath.Join(t.TempDir(), "home"),
		RemoteURL:      "http://127.0.0.1:1",
		RequestTimeout: time.Second,
		Network:        "regtest",
		BackupStore:    backend,
		LogLevel:       "debug",
	}
}

func TestNewWire_FileBackend(t *testing.T) {
	w, err := NewWire(testConfig(t, BackupFile), io.Discard)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	defer w.Close()

	if _, ok := w.Backup.(*store.BackupFileStore); !ok {
		t.Fatalf("want file backup store, got %T", w.Backup)
	}
	if w.SwapKey == nil || w.EmergencyKit == nil || w.Session == nil || w.Progress == nil || w.BaseKeys == nil {
		t.Fatal("services not wired")
	}
	if w.HTTP.Timeout != time.Second {
		t.Fatalf("http timeout %v", w.HTTP.Timeout)
	}
}

func TestNewWire_SQLiteBackend(t *testing.T) {
	w, err := NewWire(testConfig(t, BackupSQLite), io.Discard)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	if _, ok := w.Backup.(*sqlstore.BackupSQLStore); !ok {
		t.Fatalf("want sql backup store, got %T", w.Backup)
	}
	if err := w.Backup.SetEmergencyKitExported(time.Now()); err != nil {
		t.Fatalf("write through wire: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewWire_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "redis")
	if _, err := NewWire(cfg, io.Discard); err == nil {
		t.Fatal("want error for unknown backend")
	}
}

func TestNewWire_LoggersStayPerWire(t *testing.T) {
	var first, second bytes.Buffer
	w1, err := NewWire(testConfig(t, BackupFile), &first)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	defer w1.Close()
	w2, err := NewWire(testConfig(t, BackupFile), &second)
	if err != nil {
		t.Fatalf("wire: %v", err)
	}
	defer w2.Close()

	w1.Log.Info("from first")
	if !strings.Contains(first.String(), "from first") {
		t.Fatalf("first wire log missing: %q", first.String())
	}
	if strings.Contains(second.String(), "from first") {
		t.Fatalf("second wire received first wire's log: %q", second.String())
	}
}
