package shared

import "errors"

// Config file and environment.
var (
	// ErrMissingConfig marks a feature whose settings are absent, such as history with no database path.
	ErrMissingConfig = errors.New("spotctl: setting not configured")
	// ErrInvalidConfig marks a setting that is present but unusable.
	ErrInvalidConfig = errors.New("spotctl: invalid setting")
)

// Spotify authorization.
//
// ErrMissingCredentials concerns the app's client id and secret. The other three concern the user's token.
var (
	ErrMissingCredentials = errors.New("spotify: client id or secret not set")
	ErrAuthFailed         = errors.New("spotify: authorization failed")
	ErrNotAuthenticated   = errors.New("spotify: no stored token")
	ErrTimeout            = errors.New("spotify: authorization timed out")
)

// Playback requests. ErrAPIRequest wraps failures talking to the Spotify player API or to a
// spotctl server; ErrServiceUnavailable means the spotctl server could not be reached at all.
var (
	ErrAPIRequest         = errors.New("player: request failed")
	ErrServiceUnavailable = errors.New("player: control server unreachable")
)

// Command-line input.
var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
