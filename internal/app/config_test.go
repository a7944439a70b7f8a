package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// isolate points every config lookup at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "WALLETCORE_") {
			// Empty values are ignored by the loader.
			t.Setenv(strings.SplitN(kv, "=", 2)[0], "")
		}
	}
	return dir
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("remote-url", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("unrelated", "", "")
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	c, err := LoadConfig(testCommand(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Home != filepath.Join(dir, ".walletcore") {
		t.Fatalf("home %q", c.Home)
	}
	if c.RemoteURL != "http://127.0.0.1:8080" || c.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.BackupStore != BackupFile || c.LogLevel != "info" || c.Network != "mainnet" {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "walletcore.yaml")
	body := "remote_url: http://file.example:1\nrequest_timeout: 3s\nlog_level: warn\nbackup_store: sqlite\n"
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("WALLETCORE_LOG_LEVEL", "error")

	cmd := testCommand()
	if err := cmd.Flags().Set("remote-url", "https://flag.example"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	c, err := LoadConfig(cmd, file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.RemoteURL != "https://flag.example" {
		t.Fatalf("flag should win, got %q", c.RemoteURL)
	}
	if c.LogLevel != "error" {
		t.Fatalf("env should beat file, got %q", c.LogLevel)
	}
	if c.RequestTimeout != 3*time.Second || c.BackupStore != BackupSQLite {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.BackupSource() != filepath.Join(c.Home, "backup.db") {
		t.Fatalf("sqlite default dsn %q", c.BackupSource())
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Home:           "/tmp/w",
		RemoteURL:      "http://127.0.0.1:8080",
		RequestTimeout: time.Second,
		Network:        "mainnet",
		BackupStore:    BackupFile,
		LogLevel:       "info",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"empty home":      func(c *Config) { c.Home = "" },
		"bad url":         func(c *Config) { c.RemoteURL = "ftp://x" },
		"zero timeout":    func(c *Config) { c.RequestTimeout = 0 },
		"unknown net":     func(c *Config) { c.Network = "litecoin" },
		"unknown backend": func(c *Config) { c.BackupStore = "redis" },
		"postgres no dsn": func(c *Config) { c.BackupStore = BackupPostgres },
		"bad level":       func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	dir := isolate(t)
	want := Config{
		Home:           filepath.Join(dir, "data"),
		RemoteURL:      "https://houston.example",
		RequestTimeout: 42 * time.Second,
		Network:        "testnet3",
		BackupStore:    BackupSQLite,
		LogLevel:       "debug",
	}
	path, err := WriteConfigFile(want, filepath.Join(dir, "out", "walletcore.yaml"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadConfig(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Home != want.Home || got.RemoteURL != want.RemoteURL || got.RequestTimeout != want.RequestTimeout ||
		got.Network != want.Network || got.BackupStore != want.BackupStore || got.LogLevel != want.LogLevel {
		t.Fatalf("round trip mismatch:\nwant %+v\n got %+v", want, got)
	}
}
