// Package server provides the HTTP front end of spotctl.
//
// # Routes
//
// [NewRouter] wires [Handlers] onto a [BasicRouter]:
//   - GET / redirects to the Spotify consent page, storing a random state in a short-lived cookie
//   - GET /callback exchanges the authorization code and redirects to /ui
//   - GET /ui serves a small control page
//   - GET /status reports whether credentials are stored
//   - GET /{command} dispatches play, pause, next, or previous
//   - POST /voice_control resolves {"command": "<free text>"} to a command and dispatches it
//   - OPTIONS /voice_control answers CORS preflight
//
// Command routes answer with a JSON [Response]. Failures that require authorization carry "auth_url" so the
// client can send the user back through the flow. Provider refusals mirror the upstream status; unreachable
// providers are reported as 502.
//
// # Middleware
//
// [Middleware] wraps handlers with the first registered middleware outermost: [Recovery], then [Logging]
// (httplog access logs), then [CORS]. Command routes are additionally throttled per client IP by
// [RateLimiter].
//
// # One-Shot Callback
//
// [OAuthHandler] serves a single authorization callback for `spotctl auth login`, which runs a temporary
// listener on the redirect URI and waits on [OAuthHandler.Result].
//
// # Lifecycle
//
// [Server.Start] binds the listener synchronously and serves in the background; [Server.Run] adds errgroup
// supervision and a bounded graceful shutdown when its context ends.
package server
