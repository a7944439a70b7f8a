package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"walletcore/internal/domain"
	"walletcore/internal/util/memzero"
)

// BaseKeyPath is where the wallet's base keypair lives below the master key.
const BaseKeyPath domain.DerivationPath = "m/1'/1'"

// ErrInvalidPath is returned for derivation paths that are not of the form
// m/a/b'/... with decimal indexes.
var ErrInvalidPath = errors.New("invalid derivation path")

// ParsePath converts a path like m/1'/1' into child indexes, with hardened
// components offset by hdkeychain.HardenedKeyStart.
func ParsePath(path domain.DerivationPath) ([]uint32, error) {
	parts := strings.Split(string(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	out := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'") || strings.HasSuffix(p, "h")
		p = strings.TrimRight(p, "'h")
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		idx := uint32(n)
		if hardened {
			idx += hdkeychain.HardenedKeyStart
		}
		out = append(out, idx)
	}
	return out, nil
}

// GenerateBaseKeyPair draws a fresh seed and derives the base keypair at
// BaseKeyPath on net.
func GenerateBaseKeyPair(net *chaincfg.Params) (domain.KeyPair, error) {
	seed, err := hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("generate seed: %w", err)
	}
	defer memzero.Zero(seed)
	return DeriveKeyPair(seed, BaseKeyPath, net)
}

// DeriveKeyPair derives the keypair at path from seed.
func DeriveKeyPair(seed []byte, path domain.DerivationPath, net *chaincfg.Params) (domain.KeyPair, error) {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	idxs, err := ParsePath(path)
	if err != nil {
		return domain.KeyPair{}, err
	}

	key, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("master key: %w", err)
	}
	for _, i := range idxs {
		child, err := key.Derive(i)
		key.Zero()
		if err != nil {
			return domain.KeyPair{}, fmt.Errorf("derive %s: %w", path, err)
		}
		key = child
	}
	defer key.Zero()

	pub, err := key.Neuter()
	if err != nil {
		return domain.KeyPair{}, fmt.Errorf("neuter: %w", err)
	}
	return domain.KeyPair{
		Public:  domain.PublicKey{Key: pub.String(), Path: path},
		Private: domain.PrivateKey{Key: key.String(), Path: path},
	}, nil
}

// ParsePublicKey decodes an extended public key and rejects private ones.
func ParsePublicKey(pub domain.PublicKey) (*hdkeychain.ExtendedKey, error) {
	k, err := hdkeychain.NewKeyFromString(pub.Key)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	if k.IsPrivate() {
		return nil, errors.New("parse public key: got a private key")
	}
	return k, nil
}
