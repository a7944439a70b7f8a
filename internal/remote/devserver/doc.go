// Package devserver is an in-memory counterparty that serves the routes the
// remote client calls. It backs cmd/houston-dev and the client tests.
//
// The swap-server key is derived once from a random seed. OmitSwapKey makes
// the key-set route leave baseSwapServerPublicKey out of its answer, which
// reproduces a contract breach on purpose.
package devserver
