package domain

import (
	interfaces "walletcore/internal/domain/interfaces"
	types "walletcore/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint         = types.Fingerprint
	DerivationPath      = types.DerivationPath
	PublicKey           = types.PublicKey
	PrivateKey          = types.PrivateKey
	KeyPair             = types.KeyPair
	SwapServerPublicKey = types.SwapServerPublicKey
	PublicKeySet        = types.PublicKeySet
	Client              = types.Client
	CreateLoginSession  = types.CreateLoginSession
	CreateSessionOk     = types.CreateSessionOk
	ExportEmergencyKit  = types.ExportEmergencyKit
	BackupState         = types.BackupState

	UpdatePublicKeySetRequest = types.UpdatePublicKeySetRequest
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyStore         = interfaces.KeyStore
	BackupStateStore = interfaces.BackupStateStore
	RemoteService    = interfaces.RemoteService
	BaseKeyService   = interfaces.BaseKeyService
	SwapKeySyncer    = interfaces.SwapKeySyncer
)
