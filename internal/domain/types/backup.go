package types

import "time"

// ExportEmergencyKit reports a single emergency kit export attempt.
type ExportEmergencyKit struct {
	LastExportedAt   time.Time `json:"lastExportedAt"`
	VerificationCode string    `json:"verificationCode"`
	Verified         bool      `json:"verified"`
}

// BackupState is the persisted record of backup milestones. Nil means the
// milestone has not been reached.
type BackupState struct {
	PasswordSetupDate      *time.Time `json:"password_setup_date,omitempty"`
	RecoveryCodeSetupDate  *time.Time `json:"recovery_code_setup_date,omitempty"`
	EmergencyKitExportedAt *time.Time `json:"emergency_kit_exported_at,omitempty"`
}
