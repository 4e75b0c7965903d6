package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spotctl/internal/credentials"
	"github.com/desertthunder/spotctl/internal/shared"
)

// RefreshBuffer is how long before expiry a cached access token is proactively refreshed.
const RefreshBuffer = 300 * time.Second

// Scopes requested during authorization.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
}

// Endpoint is Spotify's OAuth2 endpoint. Client credentials are sent with HTTP Basic auth.
var Endpoint = oauth2.Endpoint{
	AuthURL:   spotifyauth.AuthURL,
	TokenURL:  spotifyauth.TokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// Option configures a [Manager].
type Option func(*Manager)

// WithHTTPClient sets the client used for token endpoint requests.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

// WithEndpoint overrides the provider endpoint.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(m *Manager) {
		m.config.Endpoint = endpoint
	}
}

// WithClock sets the time source used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager owns the token lifecycle: code exchange, validity checks, refresh, and persistence.
type Manager struct {
	config     *oauth2.Config
	store      credentials.Store
	httpClient *http.Client
	now        func() time.Time
	logger     *log.Logger

	// mu serializes read-modify-write of the stored record.
	mu sync.Mutex
}

// NewManager creates a Manager for the given Spotify application credentials and store.
func NewManager(creds shared.SpotifyConfig, store credentials.Store, opts ...Option) (*Manager, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}
	if store == nil {
		return nil, fmt.Errorf("missing credentials store")
	}

	m := &Manager{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       Scopes,
			Endpoint:     Endpoint,
		},
		store:  store,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// AuthCodeURL returns the provider authorization URL the user must visit to grant consent.
func (m *Manager) AuthCodeURL(state string) string {
	return m.config.AuthCodeURL(state)
}

// RedirectURL returns the registered redirect URI.
func (m *Manager) RedirectURL() string {
	return m.config.RedirectURL
}

// ExchangeCode trades a one-time authorization code for a token pair and persists it.
func (m *Manager) ExchangeCode(ctx context.Context, code string) (credentials.TokenRecord, error) {
	if code == "" {
		return credentials.TokenRecord{}, &AuthError{Kind: ExchangeRejected, Err: fmt.Errorf("%w: empty authorization code", shared.ErrMissingArgument)}
	}

	token, err := m.config.Exchange(m.clientContext(ctx), code)
	if err != nil {
		m.logger.Warn("authorization code exchange failed", "error", err)
		return credentials.TokenRecord{}, classify(ExchangeRejected, err)
	}

	record := credentials.NewTokenRecord(token.AccessToken, token.RefreshToken, token.ExpiresIn, m.now())
	if record.RefreshToken == "" {
		m.logger.Warn("provider returned no refresh token; the next command will require authorization")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, record); err != nil {
		return credentials.TokenRecord{}, fmt.Errorf("failed to persist credentials: %w", err)
	}

	m.logger.Info("authorization complete", "expires_at", record.Expiry().Format(time.RFC3339))
	return record, nil
}

// EnsureValidToken returns an access token that is valid for at least [RefreshBuffer].
//
// The cached token is returned without any network call while it is fresh. Otherwise one refresh_token grant is
// issued and the updated record is persisted before the new token is returned.
func (m *Manager) EnsureValidToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, err := m.store.Load(ctx)
	if errors.Is(err, credentials.ErrNoRecord) {
		return "", &AuthError{Kind: NoCredentials, Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credentials: %w", err)
	}

	if fresh(record, m.now()) {
		return record.AccessToken, nil
	}

	m.logger.Debug("refreshing access token", "expires_at", record.Expiry().Format(time.RFC3339))

	src := m.config.TokenSource(m.clientContext(ctx), &oauth2.Token{RefreshToken: record.RefreshToken})
	token, err := src.Token()
	if err != nil {
		m.logger.Warn("token refresh failed", "error", err)
		return "", classify(RefreshRejected, err)
	}

	updated := credentials.NewTokenRecord(token.AccessToken, record.RefreshToken, token.ExpiresIn, m.now())
	if token.RefreshToken != "" {
		updated.RefreshToken = token.RefreshToken
	}

	if err := m.store.Save(ctx, updated); err != nil {
		return "", fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}

	return updated.AccessToken, nil
}

// Status describes the stored credentials without exposing token values.
type Status struct {
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
	NeedsRefresh  bool      `json:"needs_refresh"`
}

// Status reports whether credentials are stored and whether the next command will refresh them.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ReadStatus(ctx, m.store, m.now())
}

// ReadStatus describes the record in store as of now. It needs no client credentials and makes no provider call.
func ReadStatus(ctx context.Context, store credentials.Store, now time.Time) (Status, error) {
	record, err := store.Load(ctx)
	if errors.Is(err, credentials.ErrNoRecord) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	return Status{
		Authenticated: true,
		ExpiresAt:     record.Expiry(),
		NeedsRefresh:  !fresh(record, now),
	}, nil
}

// fresh reports whether record's access token is still valid for at least [RefreshBuffer] at now.
func fresh(record credentials.TokenRecord, now time.Time) bool {
	return now.Unix() < record.ExpiresAt-int64(RefreshBuffer/time.Second)
}

// clientContext injects the configured HTTP client for the oauth2 package.
func (m *Manager) clientContext(ctx context.Context) context.Context {
	if m.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
}
