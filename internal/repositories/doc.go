// Package repositories implements SQLite persistence for command history.
//
// [HistoryRepository] appends a [models.HistoryEntry] for every dispatched command and lists them newest first.
// The schema is created by [shared.RunMigrations].
package repositories
