// Package session opens login sessions with the counterparty.
//
// A successful session carries the dates on which the user set up a password
// and a recovery code. Both are recorded in the backup state store, which
// keeps the first date it sees.
package session
