package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	clog "github.com/charmbracelet/log"

	"walletcore/internal/domain"
	"walletcore/internal/logging"
	"walletcore/internal/remote"
	backupsvc "walletcore/internal/services/backup"
	"walletcore/internal/services/basekey"
	"walletcore/internal/services/emergencykit"
	"walletcore/internal/services/session"
	"walletcore/internal/services/swapkey"
	"walletcore/internal/store"
	"walletcore/internal/store/sqlstore"
)

// Wire bundles all stores, services, actions and clients for the CLI.
type Wire struct {
	Config Config
	Log    *clog.Logger

	Keys   domain.KeyStore
	Backup domain.BackupStateStore
	Remote domain.RemoteService
	HTTP   *http.Client

	BaseKeys     *basekey.Service
	SwapKey      *swapkey.Action
	EmergencyKit *emergencykit.ReportAction
	Session      *session.CreateAction
	Progress     *backupsvc.Service

	closers []io.Closer
}

// NewWire constructs the dependency graph from cfg. Logs go to logOut, or
// stderr when nil.
func NewWire(cfg Config, logOut io.Writer) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := logging.New(logOut, cfg.LogLevel)

	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home %s: %w", cfg.Home, err)
	}

	net, err := cfg.ChainParams()
	if err != nil {
		return nil, err
	}

	w := &Wire{Config: cfg, Log: logger}

	w.Keys = store.NewKeyFileStore(cfg.Home)
	if w.Backup, err = w.openBackupStore(); err != nil {
		return nil, err
	}

	// Ensure an HTTP client is available for outbound calls
	w.HTTP = cfg.HTTP
	if w.HTTP == nil {
		w.HTTP = &http.Client{Timeout: cfg.RequestTimeout}
	}
	w.Remote = remote.NewHTTP(cfg.RemoteURL, w.HTTP, logger)

	w.BaseKeys = basekey.New(w.Keys, net, logger)
	w.SwapKey = swapkey.New(w.Keys, w.Remote, logger)
	w.EmergencyKit = emergencykit.New(w.Remote, w.Backup, logger)
	w.Session = session.New(w.Remote, w.Backup, logger)
	w.Progress = backupsvc.New(w.Backup)

	logger.Debug("wired",
		"home", cfg.Home,
		"remote_url", cfg.RemoteURL,
		"backup_store", cfg.BackupStore,
		"network", net.Name,
	)
	return w, nil
}

func (w *Wire) openBackupStore() (domain.BackupStateStore, error) {
	if w.Config.BackupStore == BackupFile {
		return store.NewBackupFileStore(w.Config.Home), nil
	}
	s, err := sqlstore.Open(
		w.Config.BackupStore,
		w.Config.BackupSource(),
		sqlstore.WithLogger(w.Log),
		sqlstore.WithTimeout(w.Config.RequestTimeout),
	)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "open backup store", Err: err}
	}
	w.closers = append(w.closers, s)
	return s, nil
}

// Close releases database handles.
func (w *Wire) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	w.closers = nil
	return errors.Join(errs...)
}
