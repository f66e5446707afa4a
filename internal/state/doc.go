// Package state holds the client-side view of the admin backend.
//
// # Overview
//
// The package keeps one Store per process with a product store, a user
// store and the theme. Every backend interaction is tracked by a Tracker
// that moves through idle, pending and a settled success or error phase.
// The Dispatcher turns UI intents into tracker transitions and backend calls.
//
// # Request Lifecycle
//
// Each intent applies its pending transition immediately and returns an Op.
// Running the Op performs the backend call and applies the terminal transition:
//
//	op := d.UpdateProduct(3, catalog.ProductPatch{Name: catalog.Ptr("Lamp")})
//	// update tracker is pending here
//	err := op(ctx)
//	// update tracker is settled; err is nil, a *Rejection or ErrSuperseded
//
// Start returns a Ticket. A terminal event presenting an older ticket is
// dropped, so a tracker always reflects the completion of its most recent
// start. Reset also supersedes any in-flight start. A superseded create,
// update or delete still patches the canonical list; only its tracker
// outcome is dropped.
//
// # Reconciliation
//
// A 404 for a request that targeted an id the canonical list still holds is
// reported as success:
//
//	fetch one  → the canonical copy becomes the detail data
//	update     → the patch is merged onto the canonical copy
//	delete     → the entity is removed locally
//
// Create never soft-succeeds. Every other rejection settles the tracker as an
// error with empty data and leaves the canonical list alone.
//
// # Filtered Lists
//
// FilteredData on a list tracker is recomputed from the canonical Data and the
// current filter after every write to either. It is never edited in place.
//
// # Concurrency
//
// Ops run on their own goroutines. Reducers run under the Store write lock
// and Snapshot returns a deep copy, so readers never observe a torn state.
//
// # Persistence
//
// Snapshot is also the persisted form. Restore replaces the state whole,
// returns pending trackers to idle and does not count as a mutation, so
// Version only moves on user or backend activity.
package state
