package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the base key is required but wallet
	// setup has not produced it yet.
	ErrNotInitialized = errors.New("wallet keys not initialized")
	// ErrAlreadyInitialized is returned when a second base keypair is saved.
	ErrAlreadyInitialized = errors.New("wallet keys already initialized")
	// ErrStaleKeyResponse is returned when a swap-server key was obtained for a
	// base key that is no longer current.
	ErrStaleKeyResponse = errors.New("swap server key was issued for a different base key")
	// ErrInvalidArgument marks caller misuse detected before any work starts.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNetwork matches any *NetworkError.
	ErrNetwork = errors.New("network error")
	// ErrProtocolViolation matches any *ProtocolViolationError.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrPersistence matches any *PersistenceError.
	ErrPersistence = errors.New("persistence error")
)

// NetworkError reports a transport or server failure. It is recoverable by
// retrying later; nothing in this module retries on its own.
type NetworkError struct {
	Op     string
	Status int // HTTP status, 0 when the request never got a response
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote returned status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) match.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ProtocolViolationError reports a response from the trusted counterparty that
// breaks its contract, such as a guaranteed field being absent. It is a
// defect on the other side, never a condition to continue past.
type ProtocolViolationError struct {
	Op     string
	Field  string
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	msg := fmt.Sprintf("%s: protocol violation: field %q", e.Op, e.Field)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets errors.Is(err, ErrProtocolViolation) match.
func (e *ProtocolViolationError) Is(target error) bool { return target == ErrProtocolViolation }

// PersistenceError reports a failed local write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
