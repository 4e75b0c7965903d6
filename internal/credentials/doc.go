// Package credentials persists the single [TokenRecord] used to talk to Spotify.
//
// Two [Store] backends are available:
//   - [FileStore]: a JSON file written atomically (temp file + rename) with 0600 permissions
//   - [KeyringStore]: the same JSON document in the OS-native keyring
//
// A missing, empty, or corrupt record reads as [ErrNoRecord], as does a record without a refresh token.
// Callers treat that as "not authorized yet" and send the user through the authorization flow.
//
// Writes always replace the whole record. There is no cross-process locking: the store assumes one process
// owns the record.
package credentials
