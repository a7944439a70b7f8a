// Package app loads configuration and wires application dependencies for
// the CLI.
//
// Config comes from defaults, walletcore.yaml, WALLETCORE_* environment
// variables and command flags, in increasing precedence. NewWire builds the
// stores, the counterparty client and the actions from it and exposes them
// via the Wire struct for commands to use.
package app
