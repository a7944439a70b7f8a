// Command houston-dev runs an in-memory wallet counterparty.
//
// It serves the key-set, emergency kit and session routes the walletcore CLI
// calls, keeping all state in memory. Pass --omit-swap-key to have key-set
// answers leave out the swap-server key.
package main
