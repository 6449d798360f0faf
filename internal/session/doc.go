// Package session provides the client's authentication state machine.
//
// # Overview
//
// The Store is the single authority on "who is logged in". Every protected
// view gates on its Snapshot, and the credential attached to outgoing
// requests is owned by the token store the session drives.
//
// # State Machine
//
// A Store moves through three states:
//
//	Loading ──rehydrate──> Authenticated | Anonymous
//	Anonymous ──login/register──> Authenticated
//	Authenticated ──logout/invalidate──> Anonymous
//
// Loading exists only before the initial Rehydrate resolves. Later login and
// logout operations are discrete async calls whose pending indicators belong
// to the initiating view, not to the shared state.
//
// # Concurrency Model
//
// Rehydrate, Login, Register, and Logout are serialized by a single
// operation mutex. This guarantees the persisted token pair is only ever
// written by one operation at a time, so a logout can never interleave with
// a login and leave a half-written credential behind. Snapshot reads use a
// separate RWMutex and return defensive copies.
//
// # Error Semantics
//
//   - Rehydrate failures clear the persisted pair and resolve to anonymous;
//     the error is returned for logging but is not a user-facing condition.
//   - Login and Register return their errors unmodified in structure so the
//     calling view can show a message (including per-field validation
//     errors from registration).
//   - Logout never fails.
//
// # 401 Cleanup
//
// Invalidate is the shared cleanup path for unauthorized responses observed
// by any fetch: it behaves exactly like a failed rehydrate, clearing both
// tokens and resetting to anonymous.
package session
