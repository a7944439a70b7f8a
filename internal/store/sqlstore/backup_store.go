package sqlstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"walletcore/internal/domain"
	"walletcore/internal/logging"
	"walletcore/internal/store"
)

const (
	singletonID    = 1
	defaultTimeout = 5 * time.Second
)

// backupStateRow is the single row holding every milestone. Dates are Unix
// nanoseconds so that comparisons behave the same on every dialect.
type backupStateRow struct {
	bun.BaseModel `bun:"table:backup_state"`

	ID                     int64  `bun:"id,pk"`
	PasswordSetupAt        *int64 `bun:"password_setup_at"`
	RecoveryCodeSetupAt    *int64 `bun:"recovery_code_setup_at"`
	EmergencyKitExportedAt *int64 `bun:"emergency_kit_exported_at"`
}

func (r backupStateRow) toDomain() domain.BackupState {
	return domain.BackupState{
		PasswordSetupDate:      fromNanos(r.PasswordSetupAt),
		RecoveryCodeSetupDate:  fromNanos(r.RecoveryCodeSetupAt),
		EmergencyKitExportedAt: fromNanos(r.EmergencyKitExportedAt),
	}
}

func rowFromDomain(st domain.BackupState) backupStateRow {
	return backupStateRow{
		ID:                     singletonID,
		PasswordSetupAt:        toNanos(st.PasswordSetupDate),
		RecoveryCodeSetupAt:    toNanos(st.RecoveryCodeSetupDate),
		EmergencyKitExportedAt: toNanos(st.EmergencyKitExportedAt),
	}
}

func toNanos(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	n := t.UnixNano()
	return &n
}

func fromNanos(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := time.Unix(0, *n).UTC()
	return &t
}

// Option configures a BackupSQLStore.
type Option func(*BackupSQLStore)

// WithLogger sets the logger for migrations and writes.
func WithLogger(l *clog.Logger) Option {
	return func(s *BackupSQLStore) { s.log = logging.OrDiscard(l) }
}

// WithTimeout bounds every database round trip.
func WithTimeout(d time.Duration) Option {
	return func(s *BackupSQLStore) { s.timeout = d }
}

// BackupSQLStore persists backup milestones in a SQL database.
type BackupSQLStore struct {
	db      *bun.DB
	log     *clog.Logger
	timeout time.Duration

	mu sync.Mutex // serializes writers within this process
}

// Open connects to dsn using backend (sqlite, postgres or mysql) and
// prepares the schema.
func Open(backend, dsn string, opts ...Option) (*BackupSQLStore, error) {
	db, err := openDB(backend, dsn)
	if err != nil {
		return nil, err
	}
	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing bun database and prepares the schema.
func New(db *bun.DB, opts ...Option) (*BackupSQLStore, error) {
	s := &BackupSQLStore{db: db, log: logging.Discard(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := s.context()
	defer cancel()
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate backup state: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *BackupSQLStore) Close() error { return s.db.Close() }

func (s *BackupSQLStore) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// migrate creates the table and its single row when missing.
func (s *BackupSQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*backupStateRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	q := s.db.NewInsert().Model(&backupStateRow{ID: singletonID})
	if s.db.Dialect().Name() == dialect.MySQL {
		q = q.Ignore()
	} else {
		q = q.On("CONFLICT (id) DO NOTHING")
	}
	if _, err := q.Exec(ctx); err != nil {
		return err
	}
	s.log.Debug("backup state schema ready", "dialect", s.db.Dialect().Name().String())
	return nil
}

// SetRecoveryCodeSetupDate records the recovery code setup date once.
func (s *BackupSQLStore) SetRecoveryCodeSetupDate(date time.Time) error {
	return s.update("set recovery code setup date", date, func(st *domain.BackupState) bool {
		next, changed := store.RecordOnce(st.RecoveryCodeSetupDate, date)
		st.RecoveryCodeSetupDate = next
		return changed
	})
}

// SetPasswordSetupDate records the password setup date once.
func (s *BackupSQLStore) SetPasswordSetupDate(date time.Time) error {
	return s.update("set password setup date", date, func(st *domain.BackupState) bool {
		next, changed := store.RecordOnce(st.PasswordSetupDate, date)
		st.PasswordSetupDate = next
		return changed
	})
}

// SetEmergencyKitExported sets or advances the kit export date.
func (s *BackupSQLStore) SetEmergencyKitExported(date time.Time) error {
	return s.update("set emergency kit exported", date, func(st *domain.BackupState) bool {
		next, changed := store.Advance(st.EmergencyKitExportedAt, date)
		st.EmergencyKitExportedAt = next
		return changed
	})
}

// EmergencyKitExportedAt returns the kit export date if one was recorded.
func (s *BackupSQLStore) EmergencyKitExportedAt() (time.Time, bool, error) {
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
func (s *BackupSQLStore) LoadBackupState() (domain.BackupState, error) {
	ctx, cancel := s.context()
	defer cancel()

	var row backupStateRow
	if err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", singletonID).
		Scan(ctx); err != nil {
		return domain.BackupState{}, &domain.PersistenceError{Op: "read backup state", Err: err}
	}
	return row.toDomain(), nil
}

// update runs mutate against the stored row inside a transaction and writes
// the row back only if mutate reports a change.
func (s *BackupSQLStore) update(
	op string,
	date time.Time,
	mutate func(*domain.BackupState) bool,
) error {
	if date.IsZero() {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.context()
	defer cancel()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var row backupStateRow
		q := tx.NewSelect().Model(&row).Where("id = ?", singletonID)
		if s.db.Dialect().Name() != dialect.SQLite {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}

		st := row.toDomain()
		if !mutate(&st) {
			return nil
		}
		next := rowFromDomain(st)
		_, err := tx.NewUpdate().Model(&next).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	s.log.Debug("backup state updated", "op", op)
	return nil
}

// Compile-time assertion that BackupSQLStore implements domain.BackupStateStore.
var _ domain.BackupStateStore = (*BackupSQLStore)(nil)
