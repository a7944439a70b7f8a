package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	clog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"walletcore/internal/crypto"
	"walletcore/internal/domain"
	"walletcore/internal/logging"
	"walletcore/internal/remote"
	"walletcore/internal/util/memzero"
)

// SwapKeyPath is where the server derives its swap key.
const SwapKeyPath domain.DerivationPath = "m/1'/2'"

// Options configures a Server.
type Options struct {
	OmitSwapKey bool
	Net         *chaincfg.Params
	Logger      *clog.Logger
}

type account struct {
	passwordSetupDate     *time.Time
	recoveryCodeSetupDate *time.Time
}

// Server holds the counterparty's view of a single wallet.
type Server struct {
	log *clog.Logger

	mu          sync.Mutex
	omitSwapKey bool
	swapKey     domain.SwapServerPublicKey
	base        *domain.PublicKey
	keySetCalls int
	kitReports  []domain.ExportEmergencyKit
	accounts    map[string]*account
}

// New returns a server with a freshly derived swap key.
func New(opts Options) (*Server, error) {
	seed, err := hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
	if err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}
	defer memzero.Zero(seed)

	kp, err := crypto.DeriveKeyPair(seed, SwapKeyPath, opts.Net)
	if err != nil {
		return nil, err
	}
	return &Server{
		log:         logging.OrDiscard(opts.Logger),
		omitSwapKey: opts.OmitSwapKey,
		swapKey:     domain.SwapServerPublicKey{Key: kp.Public.Key, Path: kp.Public.Path},
		accounts:    make(map[string]*account),
	}, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Put(remote.PathPublicKeySet, s.handleUpdatePublicKeySet)
	r.Post(remote.PathEmergencyKitExport, s.handleEmergencyKitExport)
	r.Post(remote.PathSessions, s.handleCreateSession)
	return r
}

// SetOmitSwapKey toggles whether key-set answers carry the swap key.
func (s *Server) SetOmitSwapKey(omit bool) {
	s.mu.Lock()
	s.omitSwapKey = omit
	s.mu.Unlock()
}

// SwapKey returns the key the server hands out.
func (s *Server) SwapKey() domain.SwapServerPublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swapKey
}

// KeySetRequests counts accepted key-set updates.
func (s *Server) KeySetRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keySetCalls
}

// KitReports returns every accepted emergency kit report in arrival order.
func (s *Server) KitReports() []domain.ExportEmergencyKit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ExportEmergencyKit(nil), s.kitReports...)
}

// SeedUser registers an existing user with the given setup dates.
func (s *Server) SeedUser(email string, passwordSetup, recoveryCodeSetup *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[normalizeEmail(email)] = &account{
		passwordSetupDate:     passwordSetup,
		recoveryCodeSetupDate: recoveryCodeSetup,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUpdatePublicKeySet(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePublicKeySetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := crypto.ParsePublicKey(req.BasePublicKey); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	base := req.BasePublicKey
	s.base = &base
	s.keySetCalls++
	resp := domain.PublicKeySet{BasePublicKey: &base}
	if !s.omitSwapKey {
		key := s.swapKey
		resp.BaseSwapServerPublicKey = &key
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEmergencyKitExport(w http.ResponseWriter, r *http.Request) {
	var req domain.ExportEmergencyKit
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.LastExportedAt.IsZero() || strings.TrimSpace(req.VerificationCode) == "" {
		writeError(w, http.StatusBadRequest, "lastExportedAt and verificationCode are required")
		return
	}

	s.mu.Lock()
	s.kitReports = append(s.kitReports, req)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoginSession
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	s.mu.Lock()
	acct, existing := s.accounts[email]
	if !existing {
		acct = &account{}
		s.accounts[email] = acct
	}
	resp := domain.CreateSessionOk{
		IsExistingUser:        existing,
		CanUseRecoveryCode:    acct.recoveryCodeSetupDate != nil,
		PasswordSetupDate:     acct.passwordSetupDate,
		RecoveryCodeSetupDate: acct.recoveryCodeSetupDate,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, resp)
}

// requestLogger logs each request through the server's logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"took", time.Since(start),
		)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func decodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
