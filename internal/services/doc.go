// Package services ties the token lifecycle, the player dispatcher, and command history into the single
// playback flow shared by the HTTP server and the CLI.
//
// # Playback
//
// [PlaybackService.Control] validates the command, obtains a token through [TokenSource], dispatches it, and
// records the outcome. [PlaybackService.Voice] first resolves transcribed text with [player.Resolve]. A command
// outside the closed set fails before any token or network work.
//
// # Status Mapping
//
// [StatusCode] maps every failure to the HTTP status reported to callers:
//   - 401 for missing, rejected, or unusable credentials
//   - 400 for unknown commands and unrecognized phrases
//   - the upstream status when the player API refuses a command
//   - 502 when the provider cannot be reached
//
// [NeedsAuthorization] reports whether the caller should be routed back through the authorization flow.
package services
