// Package commands defines the walletcore CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init           Generate the base keypair and store it
//   - fingerprint    Print the base key fingerprint
//   - sync-keys      Present the base key and store the swap-server key
//   - report-kit     Report an emergency kit export
//   - login          Open a session and record setup dates
//   - backup-status  Show security backup progress
//   - config         Print or write the effective configuration
//
// # Exit codes
//
// 0 on success, 3 when the counterparty broke its contract, 1 otherwise.
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (stores, counterparty client, actions) before any subcommand runs.
// Blocking commands are cancelled on SIGINT or SIGTERM.
package commands
