package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service name records are stored under.
const KeyringService = "spotctl-token"

// KeyringStore keeps the record in the OS-native credential store
// (macOS Keychain, Windows Credential Manager, Linux Secret Service).
type KeyringStore struct {
	service string
	user    string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the given service and user identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{service: service, user: user}, nil
}

// Load reads and decodes the record from the keyring.
func (k *KeyringStore) Load(ctx context.Context) (TokenRecord, error) {
	if err := ctx.Err(); err != nil {
		return TokenRecord{}, err
	}

	secret, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return TokenRecord{}, ErrNoRecord
	}
	if err != nil {
		return TokenRecord{}, fmt.Errorf("failed to read keyring: %w", err)
	}

	return DecodeTokenRecord([]byte(secret))
}

// Save overwrites the keyring entry with the encoded record.
func (k *KeyringStore) Save(ctx context.Context, record TokenRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := record.Encode()
	if err != nil {
		return err
	}

	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}
