package app

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	clog "github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"walletcore/internal/store/sqlstore"
)

// Backup store backends.
const (
	BackupFile     = "file"
	BackupSQLite   = sqlstore.SQLite
	BackupPostgres = sqlstore.Postgres
	BackupMySQL    = sqlstore.MySQL
)

const (
	configName = "walletcore"
	envPrefix  = "walletcore"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home           string        `mapstructure:"home" yaml:"home"`             // data directory, e.g. $HOME/.walletcore
	RemoteURL      string        `mapstructure:"remote_url" yaml:"remote_url"` // counterparty base URL
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Network        string        `mapstructure:"network" yaml:"network"` // mainnet, testnet3, regtest or signet
	BackupStore    string        `mapstructure:"backup_store" yaml:"backup_store"`
	BackupDSN      string        `mapstructure:"backup_dsn" yaml:"backup_dsn,omitempty"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`

	HTTP *http.Client `mapstructure:"-" yaml:"-"` // optional; built from RequestTimeout when nil
}

// Defaults returns the built-in value of every key.
func Defaults() map[string]any {
	home := ".walletcore"
	if dir, err := os.UserHomeDir(); err == nil {
		home = filepath.Join(dir, ".walletcore")
	}
	return map[string]any{
		"home":            home,
		"remote_url":      "http://127.0.0.1:8080",
		"request_timeout": "15s",
		"network":         chaincfg.MainNetParams.Name,
		"backup_store":    BackupFile,
		"backup_dsn":      "",
		"log_level":       "info",
	}
}

// userConfigDir is where walletcore.yaml is looked up first.
func userConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "walletcore"), nil
}

// LoadConfig merges defaults, walletcore.yaml, WALLETCORE_* environment
// variables and the flags of cmd, later sources winning. Flag names use
// dashes where keys use underscores. configFile, when non-empty, replaces the
// config file search.
func LoadConfig(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if dir, err := userConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := Defaults()[key]; known {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, c.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return errors.New("config: home must not be empty")
	}
	u, err := url.Parse(c.RemoteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: remote_url %q is not an http(s) URL", c.RemoteURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := c.ChainParams(); err != nil {
		return err
	}
	switch c.BackupStore {
	case BackupFile, BackupSQLite:
	case BackupPostgres, BackupMySQL:
		if c.BackupDSN == "" {
			return fmt.Errorf("config: backup_store %q needs backup_dsn", c.BackupStore)
		}
	default:
		return fmt.Errorf("config: unknown backup_store %q", c.BackupStore)
	}
	if _, err := clog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// ChainParams maps Network to its chain parameters.
func (c Config) ChainParams() (*chaincfg.Params, error) {
	for _, p := range []*chaincfg.Params{
		&chaincfg.MainNetParams,
		&chaincfg.TestNet3Params,
		&chaincfg.RegressionNetParams,
		&chaincfg.SigNetParams,
	} {
		if p.Name == c.Network {
			return p, nil
		}
	}
	return nil, fmt.Errorf("config: unknown network %q", c.Network)
}

// BackupSource returns the DSN for SQL backup stores, defaulting SQLite to
// backup.db under Home.
func (c Config) BackupSource() string {
	if c.BackupDSN == "" && c.BackupStore == BackupSQLite {
		return filepath.Join(c.Home, "backup.db")
	}
	return c.BackupDSN
}

// WriteConfigFile writes c as YAML to path, or to the user config directory
// when path is empty, and returns the path written.
func WriteConfigFile(c Config, path string) (string, error) {
	if path == "" {
		dir, err := userConfigDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, configName+".yaml")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	// 0600: backup_dsn may carry database credentials.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
