// Command walletcore manages a wallet's base key, the counterparty's
// swap-server key and security backup progress. See package commands.
package main
