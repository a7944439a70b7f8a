package interfaces

import (
	"context"

	domaintypes "walletcore/internal/domain/types"
)

// BaseKeyService creates and inspects the wallet's base keypair.
type BaseKeyService interface {
	GenerateBaseKey(passphrase string) (domaintypes.PublicKey, domaintypes.Fingerprint, error)
	FingerprintBaseKey() (domaintypes.Fingerprint, error)
}

// SwapKeySyncer refreshes the cached swap-server key. It blocks until the
// exchange finishes and must not be called from a context that cannot wait.
type SwapKeySyncer interface {
	Run(ctx context.Context) (domaintypes.SwapServerPublicKey, error)
}
