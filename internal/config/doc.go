// Package config loads the storeadmin configuration.
//
// # Resolution Order
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/storeadmin/config.toml unless a path is given)
//  3. STOREADMIN_* environment variables
//
// A missing file is fine. A file that does not parse is an error. Blank
// string values fall back to the defaults.
//
// # Fields
//
//	api_base          STOREADMIN_API_BASE          ""  (in-process mock)
//	storage           STOREADMIN_STORAGE           file | sqlite
//	state_dir         STOREADMIN_STATE_DIR         ~/.local/share/storeadmin
//	log_file          STOREADMIN_LOG_FILE          <state_dir>/activity.log
//	mock_delay_ms     STOREADMIN_MOCK_DELAY_MS     1000
//	mock_routes       STOREADMIN_MOCK_ROUTES       full | lists
//	autosave_seconds  STOREADMIN_AUTOSAVE_SECONDS  5  (0 saves only at exit)
//	theme             STOREADMIN_THEME             light | dark
//
// The theme value only seeds a fresh store. Once a snapshot exists, the
// persisted theme wins.
package config
