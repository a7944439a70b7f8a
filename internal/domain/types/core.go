package types

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// DerivationPath is a BIP32 path such as m/1'/1'.
type DerivationPath string

// String returns the string form of the path.
func (p DerivationPath) String() string { return string(p) }
