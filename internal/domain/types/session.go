package types

import "time"

// Client describes the app build that opens a session.
type Client struct {
	Type      string `json:"type"`
	BuildType string `json:"buildType"`
	Version   int    `json:"version"`
}

// CreateLoginSession is the request that opens a login session.
type CreateLoginSession struct {
	Client   Client `json:"client"`
	Email    string `json:"email"`
	GcmToken string `json:"gcmToken"`
}

// CreateSessionOk is the counterparty's decision for a login session.
type CreateSessionOk struct {
	IsExistingUser        bool       `json:"isExistingUser"`
	CanUseRecoveryCode    bool       `json:"canUseRecoveryCode"`
	PasswordSetupDate     *time.Time `json:"passwordSetupDate,omitempty"`
	RecoveryCodeSetupDate *time.Time `json:"recoveryCodeSetupDate,omitempty"`
}
