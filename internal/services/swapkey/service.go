package swapkey

import (
	"context"
	"errors"

	clog "github.com/charmbracelet/log"

	"walletcore/internal/action"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

const opExchange = "swap key exchange"

// Action runs the swap-key exchange on a single-flight executor.
type Action struct {
	keys   domain.KeyStore
	remote domain.RemoteService
	log    *clog.Logger
	exec   *action.Action[domain.SwapServerPublicKey]
}

// New returns an idle exchange action.
func New(keys domain.KeyStore, remote domain.RemoteService, logger *clog.Logger) *Action {
	logger = logging.OrDiscard(logger)
	return &Action{
		keys:   keys,
		remote: remote,
		log:    logger.With("action", "swapkey"),
		exec: action.New[domain.SwapServerPublicKey](
			"swapkey",
			action.WithLogger(logger),
			action.WithCancelWhenUnobserved(),
		),
	}
}

// Run performs the exchange, or joins the one in flight, and blocks until it
// finishes or ctx is done. Giving up on ctx does not fail the exchange for
// other callers.
func (a *Action) Run(ctx context.Context) (domain.SwapServerPublicKey, error) {
	return a.Start(ctx).Wait(ctx)
}

// Start begins the exchange without waiting for it.
func (a *Action) Start(ctx context.Context) *action.Handle[domain.SwapServerPublicKey] {
	return a.exec.Run(ctx, a.exchange)
}

// Subscribe observes the exchange's state transitions.
func (a *Action) Subscribe() *action.Subscription[domain.SwapServerPublicKey] {
	return a.exec.Subscribe()
}

// State returns the current state.
func (a *Action) State() action.State[domain.SwapServerPublicKey] { return a.exec.State() }

// Reset returns a finished exchange to Idle.
func (a *Action) Reset() error { return a.exec.Reset() }

func (a *Action) exchange(ctx context.Context) (domain.SwapServerPublicKey, error) {
	var zero domain.SwapServerPublicKey

	base, err := a.keys.BasePublicKey()
	if err != nil {
		return zero, err
	}

	set, err := a.remote.UpdatePublicKeySet(ctx, base)
	if err != nil {
		return zero, err
	}

	if set.BaseSwapServerPublicKey == nil || set.BaseSwapServerPublicKey.IsZero() {
		return zero, a.violation("baseSwapServerPublicKey", "missing from response")
	}
	if set.BasePublicKey != nil && !set.BasePublicKey.Equal(base) {
		return zero, a.violation("basePublicKey", "does not match the key presented")
	}

	key := *set.BaseSwapServerPublicKey
	if err := a.keys.StoreSwapServerKey(base, key); err != nil {
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			return zero, err
		}
		return zero, &domain.PersistenceError{Op: "store swap server key", Err: err}
	}

	a.log.Info("swap server key updated", "path", key.Path)
	return key, nil
}

func (a *Action) violation(field, detail string) error {
	err := &domain.ProtocolViolationError{Op: opExchange, Field: field, Detail: detail}
	a.log.Error("counterparty broke the key-set contract",
		"protocol_violation", true,
		"field", field,
		"err", err,
	)
	return err
}

// Compile-time assertion that Action implements domain.SwapKeySyncer.
var _ domain.SwapKeySyncer = (*Action)(nil)
