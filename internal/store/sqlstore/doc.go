// Package sqlstore provides a SQL-backed domain.BackupStateStore built on bun.
//
// SQLite (modernc.org/sqlite), PostgreSQL (pgx) and MySQL are supported.
// Milestones live in a single row; every read-compare-write runs inside one
// transaction, so a concurrent or interrupted writer can never move a date
// backwards or leave a half-written row.
package sqlstore
