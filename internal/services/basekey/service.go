package basekey

import (
	"fmt"
	"unicode"

	"github.com/btcsuite/btcd/chaincfg"
	clog "github.com/charmbracelet/log"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service creates the wallet's base keypair and stores it.
type Service struct {
	store domain.KeyStore
	net   *chaincfg.Params
	log   *clog.Logger
}

// New returns a base key service backed by the given store. A nil net means
// mainnet.
func New(s domain.KeyStore, net *chaincfg.Params, logger *clog.Logger) *Service {
	if net == nil {
		net = &chaincfg.MainNetParams
	}
	return &Service{store: s, net: net, log: logging.OrDiscard(logger)}
}

// GenerateBaseKey creates the base keypair, saves it with the private half
// sealed under passphrase, and returns the public key and its fingerprint.
func (s *Service) GenerateBaseKey(
	passphrase string,
) (domain.PublicKey, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.PublicKey{}, "", ErrWeakPassphrase
	}

	// Fail before generating anything if the wallet already has a key.
	if _, err := s.store.BasePublicKey(); err == nil {
		return domain.PublicKey{}, "", domain.ErrAlreadyInitialized
	}

	kp, err := crypto.GenerateBaseKeyPair(s.net)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	if err := s.store.SaveBaseKeyPair(passphrase, kp); err != nil {
		return domain.PublicKey{}, "", err
	}

	fp, err := crypto.Fingerprint(kp.Public)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	s.log.Info("base key created", "fingerprint", fp, "path", kp.Public.Path, "net", s.net.Name)
	return kp.Public, fp, nil
}

// FingerprintBaseKey returns the fingerprint of the stored base public key.
func (s *Service) FingerprintBaseKey() (domain.Fingerprint, error) {
	pub, err := s.store.BasePublicKey()
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(pub)
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len([]rune(passphrase)) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.BaseKeyService.
var _ domain.BaseKeyService = (*Service)(nil)
