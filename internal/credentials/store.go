package credentials

import "context"

// Store reads and writes the token record.
type Store interface {
	// Load returns the stored record, or [ErrNoRecord] when nothing usable is stored.
	Load(ctx context.Context) (TokenRecord, error)

	// Save replaces the stored record.
	Save(ctx context.Context, record TokenRecord) error
}
