// Package api provides an HTTP client for the LibraryMS REST service.
//
// # Overview
//
// This package defines the API client the terminal application uses to talk
// to the remote library service. It handles HTTP communication, JSON
// serialization, bearer-token attachment, and type-safe representation of
// the catalog, circulation, and account resources.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the service's JSON schema
//   - errors.go: Typed errors for status and validation failures
//
// # Client Usage
//
// Create a client using the server address from configuration and a token
// provider (usually the credential store):
//
//	client, err := api.NewClient("127.0.0.1:8000", creds, 0)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	books, err := client.ListBooks(ctx, api.BookQuery{Search: "tolkien"})
//	if err != nil {
//		log.Printf("catalog fetch failed: %v", err)
//	}
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json (and Content-Type on writes)
//   - Attach Authorization: Bearer <access> when a token is present
//   - Return wrapped errors with context about what failed
//
// # Query Encoding
//
// BookQuery fields left empty are omitted from the outgoing query string
// entirely. The service treats a present-but-empty parameter as an exact
// match against the empty string, so omission is what makes an unset filter
// return the unfiltered set.
//
// # Error Handling
//
// The client distinguishes between several error types:
//
//   - *StatusError: 4xx/5xx responses; Unauthorized() flags 401s so callers
//     can route them through the session invalidation path
//   - *ValidationError: 400 responses carrying the service's per-field
//     message map (registration duplicate username, malformed email, ...)
//   - Network errors: connection refused, timeout, DNS failure
//   - Deserialization errors: malformed JSON responses
//
// # Mutation Semantics
//
// The client performs no local write-back. Reserve and CancelReservation
// send the mutation and return the service's view of the record; callers
// refresh their lists by re-querying.
//
// # Thread Safety
//
// The Client struct is safe for concurrent use. The underlying http.Client
// handles connection pooling and concurrent requests internally.
package api
