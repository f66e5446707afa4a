// Package persist stores the application snapshot between runs.
//
// Two Storage backends exist. FileStorage writes <dir>/<key>.json and
// replaces it atomically. SQLiteStorage keeps a kv table in <dir>/state.db
// through the pure-Go modernc.org/sqlite driver.
//
// Persistor ties a Storage to a state.Store. Rehydrate runs once at startup
// and Flush runs on the autosave tick and at exit. Neither counts as a store
// mutation, so a flush right after a rehydrate writes nothing.
package persist
