package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"walletcore/internal/domain"
)

const backupStateFilename = "backup_state.json"

// BackupFileStore persists backup milestones as a single JSON document that
// is replaced atomically on every change.
type BackupFileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewBackupFileStore returns a BackupFileStore rooted at dir.
func NewBackupFileStore(dir string) *BackupFileStore {
	return &BackupFileStore{dir: dir}
}

// SetRecoveryCodeSetupDate records the recovery code setup date once.
func (s *BackupFileStore) SetRecoveryCodeSetupDate(date time.Time) error {
	return s.update("set recovery code setup date", date, func(st *domain.BackupState) bool {
		next, changed := RecordOnce(st.RecoveryCodeSetupDate, date)
		st.RecoveryCodeSetupDate = next
		return changed
	})
}

// SetPasswordSetupDate records the password setup date once.
func (s *BackupFileStore) SetPasswordSetupDate(date time.Time) error {
	return s.update("set password setup date", date, func(st *domain.BackupState) bool {
		next, changed := RecordOnce(st.PasswordSetupDate, date)
		st.PasswordSetupDate = next
		return changed
	})
}

// SetEmergencyKitExported sets or advances the kit export date.
func (s *BackupFileStore) SetEmergencyKitExported(date time.Time) error {
	return s.update("set emergency kit exported", date, func(st *domain.BackupState) bool {
		next, changed := Advance(st.EmergencyKitExportedAt, date)
		st.EmergencyKitExportedAt = next
		return changed
	})
}

// EmergencyKitExportedAt returns the kit export date if one was recorded.
func (s *BackupFileStore) EmergencyKitExportedAt() (time.Time, bool, error) {
	st, err := s.LoadBackupState()
	if err != nil {
		return time.Time{}, false, err
	}
	if st.EmergencyKitExportedAt == nil {
		return time.Time{}, false, nil
	}
	return *st.EmergencyKitExportedAt, true, nil
}

// LoadBackupState returns every recorded milestone.
func (s *BackupFileStore) LoadBackupState() (domain.BackupState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked()
}

func (s *BackupFileStore) loadLocked() (domain.BackupState, error) {
	var st domain.BackupState
	if _, err := readJSON(filepath.Join(s.dir, backupStateFilename), &st); err != nil {
		return domain.BackupState{}, &domain.PersistenceError{Op: "read backup state", Err: err}
	}
	return st, nil
}

// update applies mutate under the write lock and persists the result only if
// mutate reports a change.
func (s *BackupFileStore) update(
	op string,
	date time.Time,
	mutate func(*domain.BackupState) bool,
) error {
	if date.IsZero() {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadLocked()
	if err != nil {
		return err
	}
	if !mutate(&st) {
		return nil
	}
	if err := writeJSON(filepath.Join(s.dir, backupStateFilename), st, 0o600); err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// Compile-time assertion that BackupFileStore implements domain.BackupStateStore.
var _ domain.BackupStateStore = (*BackupFileStore)(nil)
