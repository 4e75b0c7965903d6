// Package auth manages the Spotify OAuth2 token lifecycle.
//
// # States
//
// A [Manager] moves between three logical states:
//   - Unauthenticated: the [credentials.Store] holds no usable record
//   - Valid: the cached access token expires more than [RefreshBuffer] from now
//   - Refreshing: the cached token is stale and a refresh_token grant is in flight
//
// [Manager.ExchangeCode] is the only path from Unauthenticated to Valid. [Manager.EnsureValidToken] refreshes
// lazily: there is no background refresh and nothing is retried.
//
// # Persistence
//
// Every successful exchange or refresh performs exactly one full write of the record. A rejected refresh leaves
// the stored record untouched. When the provider omits refresh_token from a refresh response the previous one
// is kept.
//
// The refresh-and-persist sequence runs under a mutex so concurrent requests in one process never interleave
// their read-modify-write. Nothing coordinates separate processes sharing the same store.
//
// # Errors
//
// Failures are returned as [*AuthError] values whose [Kind] distinguishes missing credentials, provider
// rejections (carrying the provider's response body), and transport failures. Match them with [errors.Is]
// against [ErrNoCredentials], [ErrExchangeRejected], [ErrRefreshRejected] and [ErrNetwork].
package auth
