package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"walletcore/internal/domain"
	"walletcore/internal/logging"
)

// Paths served by the counterparty.
const (
	PathPublicKeySet       = "/user/publicKeySet"
	PathEmergencyKitExport = "/user/emergencyKit/export"
	PathSessions           = "/sessions"

	// HeaderRequestID correlates a request with the counterparty's logs.
	HeaderRequestID = "X-Request-Id"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

// HTTP talks to the counterparty over JSON/HTTP.
type HTTP struct {
	Base string
	HTTP *http.Client
	Log  *clog.Logger
}

// NewHTTP returns a client rooted at base. A nil hc means http.DefaultClient.
func NewHTTP(base string, hc *http.Client, logger *clog.Logger) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{
		Base: strings.TrimRight(base, "/"),
		HTTP: hc,
		Log:  logging.OrDiscard(logger),
	}
}

// UpdatePublicKeySet presents basePublicKey and returns the key set the
// counterparty now holds for this wallet.
func (c *HTTP) UpdatePublicKeySet(
	ctx context.Context,
	basePublicKey domain.PublicKey,
) (domain.PublicKeySet, error) {
	var out domain.PublicKeySet
	body := domain.UpdatePublicKeySetRequest{BasePublicKey: basePublicKey}
	if err := c.do(ctx, "update public key set", http.MethodPut, PathPublicKeySet, body, &out); err != nil {
		return domain.PublicKeySet{}, err
	}
	return out, nil
}

// SetEmergencyKitExported reports a kit export attempt.
func (c *HTTP) SetEmergencyKitExported(ctx context.Context, kit domain.ExportEmergencyKit) error {
	return c.do(ctx, "report emergency kit export", http.MethodPost, PathEmergencyKitExport, kit, nil)
}

// CreateSession opens a login session.
func (c *HTTP) CreateSession(
	ctx context.Context,
	session domain.CreateLoginSession,
) (domain.CreateSessionOk, error) {
	var out domain.CreateSessionOk
	if err := c.do(ctx, "create session", http.MethodPost, PathSessions, session, &out); err != nil {
		return domain.CreateSessionOk{}, err
	}
	return out, nil
}

// do sends in as JSON and decodes the response into out when out is non-nil.
func (c *HTTP) do(ctx context.Context, op, method, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)

	c.Log.Debug("remote request", "op", op, "method", method, "path", path, "request_id", reqID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = resp.Status
		}
		c.Log.Warn("remote request failed", "op", op, "status", resp.StatusCode, "request_id", reqID)
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: errors.New(text)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

var _ domain.RemoteService = (*HTTP)(nil)
