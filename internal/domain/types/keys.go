package types

// PublicKey is a serialized extended public key together with the path it
// was derived at.
type PublicKey struct {
	Key  string         `json:"key"`
	Path DerivationPath `json:"path"`
}

// IsZero reports whether the key is unset.
func (p PublicKey) IsZero() bool { return p.Key == "" }

// Equal reports whether both keys carry the same material and path.
func (p PublicKey) Equal(other PublicKey) bool {
	return p.Key == other.Key && p.Path == other.Path
}

// PrivateKey is a serialized extended private key and its derivation path.
type PrivateKey struct {
	Key  string         `json:"key"`
	Path DerivationPath `json:"path"`
}

// KeyPair is the wallet's base keypair. It is created once and never
// modified afterwards.
type KeyPair struct {
	Public  PublicKey  `json:"public"`
	Private PrivateKey `json:"private"`
}

// SwapServerPublicKey is the counterparty's swap key. The wallet treats it as
// an opaque blob and replaces it wholesale on every successful exchange.
type SwapServerPublicKey struct {
	Key  string         `json:"key"`
	Path DerivationPath `json:"path"`
}

// IsZero reports whether the key is unset.
func (k SwapServerPublicKey) IsZero() bool { return k.Key == "" }

// PublicKeySet is the counterparty's answer to a key-set update. Every field
// is optional on the wire so that omissions can be detected.
type PublicKeySet struct {
	BasePublicKey            *PublicKey           `json:"basePublicKey,omitempty"`
	BaseCosigningPublicKey   *PublicKey           `json:"baseCosigningPublicKey,omitempty"`
	BaseSwapServerPublicKey  *SwapServerPublicKey `json:"baseSwapServerPublicKey,omitempty"`
	ExternalMaxUsedIndex     *int                 `json:"externalMaxUsedIndex,omitempty"`
	ExternalMaxWatchingIndex *int                 `json:"externalMaxWatchingIndex,omitempty"`
}

// UpdatePublicKeySetRequest is the body sent when presenting the base key.
type UpdatePublicKeySetRequest struct {
	BasePublicKey PublicKey `json:"basePublicKey"`
}
