// Package catalog owns the book-list query surface: the filter state views
// hold, ordering of overlapping fetches, and the client-side fallback filter.
//
// # Out-of-Order Responses
//
// Every filter change triggers a re-fetch, and nothing cancels the previous
// request. Two rapid changes A then B can therefore complete out of order,
// with A's (stale) response arriving after B's. The Sequencer closes that
// window: a fetch takes a ticket before dispatch, and its result is applied
// only if Accept says the ticket is still the latest issued one. The
// displayed list always reflects the most recently issued filter state,
// never the most recently received response.
//
// # Server-Side vs Client-Side Filtering
//
// The canonical path sends the query to the service (search/category/
// language parameters on /books/), which scales to large catalogs and keeps
// the client stateless over the full collection. Filter exists for
// deployments whose service lacks those parameters; it narrows a fetched
// list locally with matching semantics close to the service's (title,
// author name, and ISBN substring match). It is a degraded mode, selected
// by configuration, not a peer of the server-side path.
package catalog
