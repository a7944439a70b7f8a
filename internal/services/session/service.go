package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	clog "github.com/charmbracelet/log"

	"walletcore/internal/action"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

// CreateAction opens a session and records the setup dates it reports.
type CreateAction struct {
	remote domain.RemoteService
	backup domain.BackupStateStore
	log    *clog.Logger
	exec   *action.Action[domain.CreateSessionOk]
}

// New returns an idle session action.
func New(remote domain.RemoteService, backup domain.BackupStateStore, logger *clog.Logger) *CreateAction {
	logger = logging.OrDiscard(logger)
	return &CreateAction{
		remote: remote,
		backup: backup,
		log:    logger.With("action", "session"),
		exec:   action.New[domain.CreateSessionOk]("session", action.WithLogger(logger)),
	}
}

// Run starts opening a session for req and returns without waiting. A
// malformed email fails synchronously.
func (a *CreateAction) Run(
	ctx context.Context,
	req domain.CreateLoginSession,
) (*action.Handle[domain.CreateSessionOk], error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("create session: email %q: %w", req.Email, domain.ErrInvalidArgument)
	}
	return a.exec.Run(ctx, func(ctx context.Context) (domain.CreateSessionOk, error) {
		return a.create(ctx, req)
	}), nil
}

// Subscribe observes the action's state transitions.
func (a *CreateAction) Subscribe() *action.Subscription[domain.CreateSessionOk] {
	return a.exec.Subscribe()
}

// State returns the current state.
func (a *CreateAction) State() action.State[domain.CreateSessionOk] { return a.exec.State() }

// Reset returns a finished action to Idle.
func (a *CreateAction) Reset() error { return a.exec.Reset() }

func (a *CreateAction) create(
	ctx context.Context,
	req domain.CreateLoginSession,
) (domain.CreateSessionOk, error) {
	ok, err := a.remote.CreateSession(ctx, req)
	if err != nil {
		return domain.CreateSessionOk{}, err
	}

	if ok.PasswordSetupDate != nil {
		if err := a.backup.SetPasswordSetupDate(*ok.PasswordSetupDate); err != nil {
			return domain.CreateSessionOk{}, persistence("record password setup date", err)
		}
	}
	if ok.RecoveryCodeSetupDate != nil {
		if err := a.backup.SetRecoveryCodeSetupDate(*ok.RecoveryCodeSetupDate); err != nil {
			return domain.CreateSessionOk{}, persistence("record recovery code setup date", err)
		}
	}

	a.log.Info("session created",
		"existing_user", ok.IsExistingUser,
		"can_use_recovery_code", ok.CanUseRecoveryCode,
	)
	return ok, nil
}

func persistence(op string, err error) error {
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
