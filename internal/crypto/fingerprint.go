package crypto

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"

	"walletcore/internal/domain"
)

// Fingerprint returns the BIP32 fingerprint of pub: the first 4 bytes of
// HASH160 over the compressed public key, hex encoded.
func Fingerprint(pub domain.PublicKey) (domain.Fingerprint, error) {
	k, err := ParsePublicKey(pub)
	if err != nil {
		return "", err
	}
	ec, err := k.ECPubKey()
	if err != nil {
		return "", err
	}
	sum := btcutil.Hash160(ec.SerializeCompressed())
	return domain.Fingerprint(hex.EncodeToString(sum[:4])), nil
}
