package models

import (
	"fmt"
	"time"
)

// Source identifies the front end that issued a command.
type Source string

const (
	SourceWeb   Source = "web"
	SourceVoice Source = "voice"
	SourceCLI   Source = "cli"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceWeb, SourceVoice, SourceCLI:
		return true
	}
	return false
}

// HistoryEntry is one dispatched command and its outcome.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Source    Source    `json:"source"`
	Status    int       `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHistoryEntry creates an entry stamped with the current time. The ID is assigned on insert.
func NewHistoryEntry(command string, source Source, status int, err error) *HistoryEntry {
	entry := &HistoryEntry{
		Command:   command,
		Source:    source,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// Succeeded reports whether the command was accepted.
func (h *HistoryEntry) Succeeded() bool {
	return h.Error == "" && h.Status >= 200 && h.Status < 300
}

// Validate checks required fields.
func (h *HistoryEntry) Validate() error {
	if h.Command == "" {
		return fmt.Errorf("command is required")
	}
	if !h.Source.Valid() {
		return fmt.Errorf("invalid source %q", h.Source)
	}
	return nil
}
