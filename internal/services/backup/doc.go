// Package backup computes security backup progress from the stored
// milestones: password setup, recovery code setup and emergency kit export.
package backup
