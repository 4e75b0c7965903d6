// Package models defines the persistent entities of spotctl.
//
// [HistoryEntry] records one dispatched playback command: where it came from, the HTTP status reported to the
// caller, and the failure reason if any. Entries are append-only.
package models
