// Package swapkey refreshes the counterparty's swap-server key.
//
// The exchange presents the wallet's base public key, expects the
// counterparty to answer with its swap-server key, and stores that key
// against the base key that was presented. Concurrent callers share one
// exchange. If every caller stops waiting, the request is cancelled.
package swapkey
