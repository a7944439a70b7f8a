package emergencykit_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"walletcore/internal/action"
	"walletcore/internal/domain"
	"walletcore/internal/services/emergencykit"
	"walletcore/internal/store"
)

var (
	d1 = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	d2 = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
)

// fakeRemote records kit reports and fails with err when set.
type fakeRemote struct {
	mu      sync.Mutex
	reports []domain.ExportEmergencyKit
	err     error
}

func (f *fakeRemote) UpdatePublicKeySet(context.Context, domain.PublicKey) (domain.PublicKeySet, error) {
	return domain.PublicKeySet{}, nil
}

func (f *fakeRemote) SetEmergencyKitExported(_ context.Context, kit domain.ExportEmergencyKit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, kit)
	return nil
}

func (f *fakeRemote) CreateSession(context.Context, domain.CreateLoginSession) (domain.CreateSessionOk, error) {
	return domain.CreateSessionOk{}, nil
}

func report(t *testing.T, a *emergencykit.ReportAction, date time.Time, verified bool) error {
	t.Helper()
	h, err := a.Run(context.Background(), date, "492031", verified)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = h.Wait(ctx)
	return err
}

func exportedAt(t *testing.T, b domain.BackupStateStore) (time.Time, bool) {
	t.Helper()
	at, ok, err := b.EmergencyKitExportedAt()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return at, ok
}

func TestReport_UnverifiedLeavesDateUnset(t *testing.T) {
	rem, backup := &fakeRemote{}, store.NewBackupFileStore(t.TempDir())
	a := emergencykit.New(rem, backup, nil)

	if err := report(t, a, d1, false); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, ok := exportedAt(t, backup); ok {
		t.Fatal("unverified export must not be recorded")
	}
	if len(rem.reports) != 1 || rem.reports[0].Verified {
		t.Fatalf("unexpected reports %+v", rem.reports)
	}
}

func TestReport_VerifiedRecordsDate(t *testing.T) {
	backup := store.NewBackupFileStore(t.TempDir())
	a := emergencykit.New(&fakeRemote{}, backup, nil)

	if err := report(t, a, d1, true); err != nil {
		t.Fatalf("report: %v", err)
	}
	if at, ok := exportedAt(t, backup); !ok || !at.Equal(d1) {
		t.Fatalf("want %v, got %v ok=%v", d1, at, ok)
	}
	if st := a.State(); st.Status != action.Succeeded {
		t.Fatalf("want Succeeded, got %v", st)
	}
}

func TestReport_LaterDateWinsInEitherOrder(t *testing.T) {
	for _, order := range [][]time.Time{{d1, d2}, {d2, d1}} {
		backup := store.NewBackupFileStore(t.TempDir())
		a := emergencykit.New(&fakeRemote{}, backup, nil)
		for _, d := range order {
			if err := report(t, a, d, true); err != nil {
				t.Fatalf("report %v: %v", d, err)
			}
		}
		if at, ok := exportedAt(t, backup); !ok || !at.Equal(d2) {
			t.Fatalf("order %v: want %v, got %v", order, d2, at)
		}
	}
}

func TestReport_NetworkFailureLeavesStateUnchanged(t *testing.T) {
	rem := &fakeRemote{err: &domain.NetworkError{Op: "report", Err: errors.New("offline")}}
	backup := store.NewBackupFileStore(t.TempDir())
	a := emergencykit.New(rem, backup, nil)

	if err := report(t, a, d1, true); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("want network error, got %v", err)
	}
	if _, ok := exportedAt(t, backup); ok {
		t.Fatal("failed report must not be recorded")
	}
	if st := a.State(); st.Status != action.Failed {
		t.Fatalf("want Failed, got %v", st)
	}
}

func TestReport_InvalidArguments(t *testing.T) {
	a := emergencykit.New(&fakeRemote{}, store.NewBackupFileStore(t.TempDir()), nil)

	if _, err := a.Run(context.Background(), time.Time{}, "code", true); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("zero date: want ErrInvalidArgument, got %v", err)
	}
	if _, err := a.Run(context.Background(), d1, "  ", true); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("empty code: want ErrInvalidArgument, got %v", err)
	}
	if st := a.State(); st.Status != action.Idle {
		t.Fatalf("invalid calls must not start a run, got %v", st)
	}
}

func TestReport_SubscriberSeesTerminalState(t *testing.T) {
	a := emergencykit.New(&fakeRemote{}, store.NewBackupFileStore(t.TempDir()), nil)
	sub := a.Subscribe()
	defer sub.Close()

	if _, err := a.Run(context.Background(), d1, "492031", true); err != nil {
		t.Fatalf("run: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-sub.C():
			if st.Status == action.Succeeded {
				return
			}
			if st.Status == action.Failed {
				t.Fatalf("unexpected failure: %v", st.Err)
			}
		case <-deadline:
			t.Fatal("timed out waiting for Succeeded")
		}
	}
}
