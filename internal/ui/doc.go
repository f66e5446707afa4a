// Package ui provides the terminal interface of the admin console.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is a value; Update returns the next
// model and the commands to run. The model never holds entity data of its
// own: every render reads the state.Snapshot taken after the last mutation
// or tick.
//
// # Pages
//
// Six pages exist. Each has mount and unmount effects, run by navigate:
//
//   - Products: fetches the list and categories unless they are already
//     loading or loaded. Leaving it clears the filter and resets the delete
//     tracker.
//   - Product: fetches one product. A genuine failure shows a toast and
//     returns to the list. Leaving it resets the detail and update trackers.
//   - New Product: a form that submits a create. Success returns to the
//     list. Leaving it resets the create tracker.
//   - Users and User: the same contracts for users, without create or
//     categories.
//   - Activity: the tail of the activity log.
//
// # Requests
//
// Intents are dispatched inside Update, so the pending transition is
// visible in the same frame. The returned state.Op runs inside a tea.Cmd
// and reports back with opDoneMsg. Superseded operations produce no toast.
//
// # Key Bindings
//
//   - p/u/a: Products, Users, Activity
//   - j/k, g/G: Move, top/bottom
//   - enter, e, d, n: View, edit, delete, create
//   - f: Toggle favorite (local only)
//   - c: Cycle category filter
//   - /: Search
//   - r: Reload
//   - T: Toggle light/dark theme
//   - h/?: Help
//   - q or Ctrl+C: Exit
package ui
