// Package logtail reads the end of the activity log.
//
// Read keeps a ring buffer of the last N lines so large files are scanned
// once without being held in memory. Parse splits the key=value lines the
// dispatcher writes into an Entry for the activity view.
package logtail
