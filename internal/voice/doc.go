// Package voice forwards transcribed speech to a running spotctl server.
//
// Speech-to-text happens elsewhere: an external recognizer writes one transcript per line, which is piped into
// [Forwarder.Run]. Each non-blank line is posted to the server's /voice_control endpoint, where it is resolved
// to a playback command. Server-side failures are logged and the forwarder keeps reading.
package voice
