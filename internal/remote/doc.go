// Package remote provides an HTTP implementation of domain.RemoteService,
// the wallet's counterparty server.
//
// Supported operations:
//   - Presenting the base public key and receiving the counterparty's key set.
//   - Reporting an emergency kit export.
//   - Opening a login session.
//
// All requests are JSON over HTTP, take a context for cancellation and
// deadlines, and carry an X-Request-Id header. Transport failures, non-2xx
// statuses and undecodable bodies are returned as *domain.NetworkError.
package remote
