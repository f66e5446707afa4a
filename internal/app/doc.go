// Package app is the composition root of the admin console.
//
// # Startup
//
// Run wires the pieces in order:
//
//  1. Load config from ~/.config/storeadmin/config.toml and STOREADMIN_* env
//  2. Open the activity log; every request outcome is written there
//  3. Open snapshot storage (file or SQLite) and rehydrate the store
//  4. Build the API client, backed by the in-process mock unless api_base is set
//  5. Start the autosave loop
//  6. Run the TUI until the user quits or the context is cancelled
//
// On the way out the autosave loop is stopped and a final flush saves the
// snapshot, so a session ends with its theme and loaded data on disk.
//
// # Error Handling
//
// Config, log, storage and client failures abort startup. Autosave failures
// are logged to the activity log and retried on the next tick; the final
// flush error is returned from Run.
package app
