// Package crypto exposes the key primitives used by the wallet.
//
// Contents
//
//   - BIP32 base keypair generation at a hardened path (GenerateBaseKeyPair,
//     DeriveKeyPair, ParsePath)
//   - Short public-key fingerprints for display and logging (Fingerprint)
//
// Keys are carried as base58 extended keys (xpub/xprv) on the network
// selected by the caller. Callers should treat serialized private keys and
// seeds as sensitive and wipe them with memzero when practical.
package crypto
