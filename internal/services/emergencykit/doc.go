// Package emergencykit reports emergency kit exports to the counterparty.
//
// A report is sent first; only after the counterparty accepts it is the
// local export date recorded, and only when the user verified the kit. The
// local date never moves backwards, so reports may complete in any order.
package emergencykit
