package interfaces

import (
	"context"

	domaintypes "walletcore/internal/domain/types"
)

// RemoteService is how we talk to the wallet's counterparty server.
//
// Implementations report transport and server failures as *domain.NetworkError.
type RemoteService interface {
	UpdatePublicKeySet(
		ctx context.Context,
		basePublicKey domaintypes.PublicKey,
	) (domaintypes.PublicKeySet, error)
	SetEmergencyKitExported(ctx context.Context, kit domaintypes.ExportEmergencyKit) error
	CreateSession(
		ctx context.Context,
		session domaintypes.CreateLoginSession,
	) (domaintypes.CreateSessionOk, error)
}
