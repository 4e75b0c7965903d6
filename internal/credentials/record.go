package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoRecord reports that no usable token record is stored.
var ErrNoRecord = errors.New("no stored credentials")

// TokenRecord is the persisted token state.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds
}

// NewTokenRecord builds a record whose expiry is receivedAt plus expiresIn seconds.
func NewTokenRecord(accessToken, refreshToken string, expiresIn int64, receivedAt time.Time) TokenRecord {
	return TokenRecord{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    receivedAt.Unix() + expiresIn,
	}
}

// Expiry returns ExpiresAt as a [time.Time].
func (r TokenRecord) Expiry() time.Time {
	return time.Unix(r.ExpiresAt, 0)
}

// Encode serializes the record to its JSON file format.
func (r TokenRecord) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token record: %w", err)
	}
	return data, nil
}

// DecodeTokenRecord parses a stored record.
//
// Malformed JSON and records without a refresh token return [ErrNoRecord].
func DecodeTokenRecord(data []byte) (TokenRecord, error) {
	var r TokenRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return TokenRecord{}, fmt.Errorf("%w: corrupt record: %v", ErrNoRecord, err)
	}
	if r.RefreshToken == "" {
		return TokenRecord{}, fmt.Errorf("%w: record has no refresh token", ErrNoRecord)
	}
	return r, nil
}
