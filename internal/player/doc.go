// Package player dispatches playback commands to the Spotify player-control API.
//
// # Commands
//
// The command set is closed: [Play], [Pause], [Next], and [Previous]. Each maps to a fixed HTTP method and path
// suffix under the player base URL. [ParseCommand] validates user input against that set.
//
// # Dispatch
//
// [Dispatcher.Execute] issues a single request with the bearer token and no body. HTTP 200 and 204 are success;
// anything else is a [DispatchError] of kind [Rejected] carrying the upstream status and the provider's reason.
//
// # Voice Resolution
//
// [Resolve] maps free-form transcribed text to a command by substring containment. Keywords are checked in table
// order (play, pause, next, previous) and the first match wins, so "play next song" resolves to [Play].
package player
