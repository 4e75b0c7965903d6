package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// HistoryRepository persists [models.HistoryEntry] rows in the command_history table.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts entry, assigning it a new ID.
func (r *HistoryRepository) Record(ctx context.Context, entry *models.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	entry.ID = shared.GenerateID()

	query := `
		INSERT INTO command_history (id, command, source, status, error, created_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Command, string(entry.Source), entry.Status, entry.Error, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID.
func (r *HistoryRepository) Get(ctx context.Context, id string) (*models.HistoryEntry, error) {
	query := `
		SELECT id, command, source, status, error, created_at
		FROM command_history
		WHERE id = ?
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history entry: %w", err)
	}

	return entry, nil
}

// List returns up to limit entries, newest first. A zero limit selects [DefaultListLimit].
//
// Supported criteria: "source" ([models.Source] or string) and "command" (string).
func (r *HistoryRepository) List(ctx context.Context, limit int, criteria map[string]any) ([]*models.HistoryEntry, error) {
	limit, err := limitOrDefault(limit)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, command, source, status, error, created_at
		FROM command_history
		WHERE 1 = 1
	`
	args := []any{}

	switch source := criteria["source"].(type) {
	case models.Source:
		query += " AND source = ?"
		args = append(args, string(source))
	case string:
		if source != "" {
			query += " AND source = ?"
			args = append(args, source)
		}
	}

	if command, ok := criteria["command"].(string); ok && command != "" {
		query += " AND command = ?"
		args = append(args, command)
	}

	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []*models.HistoryEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return entries, nil
}

// Count returns the number of stored entries.
func (r *HistoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM command_history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.HistoryEntry, error) {
	var (
		entry  models.HistoryEntry
		source string
	)

	if err := s.Scan(&entry.ID, &entry.Command, &source, &entry.Status, &entry.Error, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Source = models.Source(source)

	return &entry, nil
}
