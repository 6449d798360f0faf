// Package ui implements the terminal interface with Bubble Tea.
//
// # Architecture
//
// A single root Model owns all view state; each view keeps its own state
// struct and its key handling, message handling, and rendering in one file:
//
//   - login.go      sign-in form
//   - register.go   account creation form with per-field errors
//   - books.go      catalog browsing with search/category/language filters
//   - mybooks.go    loans (active and history) and holds
//   - dashboard.go  staff-only overview counts
//
// # Data Flow
//
// All network work happens in commands (messages.go) so Update never blocks.
// Every fetch resolves to one message carrying either data or its error, and
// the handler for that message decides how the view degrades. Catalog
// fetches additionally carry a sequencer ticket; responses whose ticket is
// no longer the latest are discarded so a slow fetch for an old filter state
// cannot overwrite a newer result.
//
// # Session Handling
//
// Any fetch that comes back 401 funnels through expireSession: credentials
// are cleared and the UI drops to the login view with a notice. Permission
// errors (403) are ordinary errors and leave the session intact.
package ui
