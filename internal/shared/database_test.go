package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDatabase(t *testing.T) {
	t.Run("NewDatabase Creates Parent Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "history.db")

		db, err := NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected database file at %s: %v", path, err)
		}
	})

	t.Run("NewDatabase Empty Path", func(t *testing.T) {
		if _, err := NewDatabase(""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Memory Database Shares One Connection", func(t *testing.T) {
		db, err := NewDatabase(MemoryDatabase)
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if got := db.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("expected one open connection, got %d", got)
		}
	})

	t.Run("OpenHistory Disabled", func(t *testing.T) {
		db, err := OpenHistory(DatabaseConfig{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if db != nil {
			t.Error("expected nil database when path is empty")
		}
	})

	t.Run("OpenHistory Runs Migrations", func(t *testing.T) {
		db, err := OpenHistory(DatabaseConfig{Path: filepath.Join(t.TempDir(), "history.db"), MaxOpenConns: 1, MaxIdleConns: 1})
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("SELECT 1 FROM command_history LIMIT 1"); err != nil {
			t.Errorf("command_history table should exist: %v", err)
		}
	})
}
