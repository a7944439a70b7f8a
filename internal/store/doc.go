// Package store provides file-based persistence for the wallet's keys and
// backup milestones.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk. Every write goes to a temp file that is
// synced and renamed over the target, so a crash leaves either the old or the
// new value. All methods are safe for concurrent use.
//
// The package includes stores for:
//   - The base keypair and the swap-server key (KeyFileStore)
//   - Backup milestones (BackupFileStore)
//
// A SQL-backed backup store lives in the sqlstore subpackage.
package store
