// Package basekey manages creation and inspection of the wallet's base keypair.
//
// It enforces passphrase policy, derives a BIP32 keypair at m/1'/1', and
// persists it via the domain.KeyStore. The keypair is created once; a second
// attempt fails with domain.ErrAlreadyInitialized.
package basekey
