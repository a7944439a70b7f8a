package interfaces

import (
	"time"

	domaintypes "walletcore/internal/domain/types"
)

// KeyStore is the single source of truth for the base keypair and the
// counterparty's swap-server key.
//
// Reads may run concurrently. Writes are atomic: a failed write leaves the
// previous value in place.
type KeyStore interface {
	// SaveBaseKeyPair records the base keypair. It can succeed only once.
	SaveBaseKeyPair(passphrase string, kp domaintypes.KeyPair) error
	// BasePublicKey returns ErrNotInitialized until a keypair is saved.
	BasePublicKey() (domaintypes.PublicKey, error)
	LoadBasePrivateKey(passphrase string) (domaintypes.PrivateKey, error)

	// StoreSwapServerKey overwrites the swap-server key. base must be the
	// key that was presented to obtain it, otherwise ErrStaleKeyResponse.
	StoreSwapServerKey(base domaintypes.PublicKey, key domaintypes.SwapServerPublicKey) error
	SwapServerKey() (domaintypes.SwapServerPublicKey, bool, error)
}

// BackupStateStore persists backup milestones. Dates only ever move forward.
type BackupStateStore interface {
	// SetRecoveryCodeSetupDate and SetPasswordSetupDate keep the first date written.
	SetRecoveryCodeSetupDate(date time.Time) error
	SetPasswordSetupDate(date time.Time) error
	// SetEmergencyKitExported sets the export date, or advances it if date is later.
	SetEmergencyKitExported(date time.Time) error

	EmergencyKitExportedAt() (time.Time, bool, error)
	LoadBackupState() (domaintypes.BackupState, error)
}
