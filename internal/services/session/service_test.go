package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"walletcore/internal/domain"
	"walletcore/internal/services/session"
	"walletcore/internal/store"
)

type fakeRemote struct {
	ok    domain.CreateSessionOk
	err   error
	calls int
}

func (f *fakeRemote) UpdatePublicKeySet(context.Context, domain.PublicKey) (domain.PublicKeySet, error) {
	return domain.PublicKeySet{}, nil
}

func (f *fakeRemote) SetEmergencyKitExported(context.Context, domain.ExportEmergencyKit) error {
	return nil
}

func (f *fakeRemote) CreateSession(context.Context, domain.CreateLoginSession) (domain.CreateSessionOk, error) {
	f.calls++
	return f.ok, f.err
}

func wait(t *testing.T, a *session.CreateAction, email string) (domain.CreateSessionOk, error) {
	t.Helper()
	h, err := a.Run(context.Background(), domain.CreateLoginSession{
		Client: domain.Client{Type: "cli", BuildType: "dev", Version: 1},
		Email:  email,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.Wait(ctx)
}

func TestCreate_RecordsSetupDatesOnce(t *testing.T) {
	pw := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	rc := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	rem := &fakeRemote{ok: domain.CreateSessionOk{
		IsExistingUser:        true,
		CanUseRecoveryCode:    true,
		PasswordSetupDate:     &pw,
		RecoveryCodeSetupDate: &rc,
	}}
	backup := store.NewBackupFileStore(t.TempDir())
	a := session.New(rem, backup, nil)

	ok, err := wait(t, a, "user@example.com")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !ok.IsExistingUser {
		t.Fatal("want existing user")
	}

	// A later session reporting different dates must not overwrite them.
	later := pw.Add(24 * time.Hour)
	rem.ok.PasswordSetupDate, rem.ok.RecoveryCodeSetupDate = &later, &later
	if _, err := wait(t, a, "user@example.com"); err != nil {
		t.Fatalf("second create: %v", err)
	}

	st, err := backup.LoadBackupState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.PasswordSetupDate == nil || !st.PasswordSetupDate.Equal(pw) {
		t.Fatalf("password date: want %v, got %v", pw, st.PasswordSetupDate)
	}
	if st.RecoveryCodeSetupDate == nil || !st.RecoveryCodeSetupDate.Equal(rc) {
		t.Fatalf("recovery code date: want %v, got %v", rc, st.RecoveryCodeSetupDate)
	}
	if rem.calls != 2 {
		t.Fatalf("want 2 calls, got %d", rem.calls)
	}
}

func TestCreate_NewUserRecordsNothing(t *testing.T) {
	backup := store.NewBackupFileStore(t.TempDir())
	a := session.New(&fakeRemote{}, backup, nil)

	if _, err := wait(t, a, "new@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	st, err := backup.LoadBackupState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.PasswordSetupDate != nil || st.RecoveryCodeSetupDate != nil {
		t.Fatalf("nothing should be recorded, got %+v", st)
	}
}

func TestCreate_NetworkError(t *testing.T) {
	rem := &fakeRemote{err: &domain.NetworkError{Op: "create session", Err: errors.New("refused")}}
	a := session.New(rem, store.NewBackupFileStore(t.TempDir()), nil)

	if _, err := wait(t, a, "user@example.com"); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("want network error, got %v", err)
	}
}

func TestCreate_InvalidEmail(t *testing.T) {
	rem := &fakeRemote{}
	a := session.New(rem, store.NewBackupFileStore(t.TempDir()), nil)

	_, err := a.Run(context.Background(), domain.CreateLoginSession{Email: "not-an-email"})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if rem.calls != 0 {
		t.Fatal("remote must not be called")
	}
}
