package emergencykit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"walletcore/internal/action"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

// ReportAction reports a kit export and records it locally when verified.
type ReportAction struct {
	remote domain.RemoteService
	backup domain.BackupStateStore
	log    *clog.Logger
	exec   *action.Action[struct{}]
}

// New returns an idle report action.
func New(remote domain.RemoteService, backup domain.BackupStateStore, logger *clog.Logger) *ReportAction {
	logger = logging.OrDiscard(logger)
	return &ReportAction{
		remote: remote,
		backup: backup,
		log:    logger.With("action", "emergencykit"),
		exec:   action.New[struct{}]("emergencykit", action.WithLogger(logger)),
	}
}

// Run starts reporting an export made at date and returns without waiting.
// It fails synchronously only for a zero date or an empty code. While a
// report is in flight, Run joins it and the new arguments are ignored.
func (a *ReportAction) Run(
	ctx context.Context,
	date time.Time,
	verificationCode string,
	verified bool,
) (*action.Handle[struct{}], error) {
	if date.IsZero() {
		return nil, fmt.Errorf("report emergency kit: zero export date: %w", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(verificationCode) == "" {
		return nil, fmt.Errorf("report emergency kit: empty verification code: %w", domain.ErrInvalidArgument)
	}

	kit := domain.ExportEmergencyKit{
		LastExportedAt:   date,
		VerificationCode: verificationCode,
		Verified:         verified,
	}
	return a.exec.Run(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.report(ctx, kit)
	}), nil
}

// Subscribe observes the report's state transitions.
func (a *ReportAction) Subscribe() *action.Subscription[struct{}] { return a.exec.Subscribe() }

// State returns the current state.
func (a *ReportAction) State() action.State[struct{}] { return a.exec.State() }

// Reset returns a finished report to Idle.
func (a *ReportAction) Reset() error { return a.exec.Reset() }

func (a *ReportAction) report(ctx context.Context, kit domain.ExportEmergencyKit) error {
	if err := a.remote.SetEmergencyKitExported(ctx, kit); err != nil {
		return err
	}
	if !kit.Verified {
		a.log.Info("unverified kit export reported", "exported_at", kit.LastExportedAt)
		return nil
	}

	if err := a.backup.SetEmergencyKitExported(kit.LastExportedAt); err != nil {
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			return err
		}
		return &domain.PersistenceError{Op: "record emergency kit export", Err: err}
	}
	a.log.Info("emergency kit export recorded", "exported_at", kit.LastExportedAt)
	return nil
}
