package catalog

import (
	"strconv"
	"strings"
	"sync"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// Query is the filter state for a catalog view: free-text search, a category
// id, and a language. Empty fields mean "unfiltered".
type Query struct {
	Search   string
	Category string
	Language string
}

// Normalized trims surrounding whitespace from every field.
func (q Query) Normalized() Query {
	return Query{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Language: strings.TrimSpace(q.Language),
	}
}

// IsZero reports whether no filter is set.
func (q Query) IsZero() bool {
	n := q.Normalized()
	return n.Search == "" && n.Category == "" && n.Language == ""
}

// Params converts the query into the client's request shape. The client owns
// omitting empty fields from the wire.
func (q Query) Params() api.BookQuery {
	n := q.Normalized()
	return api.BookQuery{Search: n.Search, Category: n.Category, Language: n.Language}
}

// Sequencer orders overlapping catalog requests. Each fetch takes a ticket
// before it is issued; when its response arrives, Accept reports whether it
// still reflects the most recently issued filter state. A slow response for
// an older state is rejected, so it can never overwrite a newer one.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues a ticket for a fetch about to be dispatched.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept reports whether a completed fetch with the given ticket should be
// applied. Only the most recently issued ticket is accepted, and only once.
func (s *Sequencer) Accept(ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued || ticket <= s.applied {
		return false
	}
	s.applied = ticket
	return true
}

// Filter narrows a client-held list the way the service would. This is the
// degraded mode for services without query parameter support; server-side
// filtering is the primary path. Search matches case-insensitively against
// title, author names, and ISBN.
func Filter(books []api.Book, q Query) []api.Book {
	n := q.Normalized()
	if n.Search == "" && n.Category == "" && n.Language == "" {
		return books
	}
	out := make([]api.Book, 0, len(books))
	for _, b := range books {
		if matches(b, n) {
			out = append(out, b)
		}
	}
	return out
}

func matches(b api.Book, q Query) bool {
	if q.Category != "" && strconv.FormatInt(b.Category.ID, 10) != q.Category {
		return false
	}
	if q.Language != "" && !strings.EqualFold(b.Language, q.Language) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.AuthorNames()), needle) &&
			!strings.Contains(strings.ToLower(b.ISBN), needle) {
			return false
		}
	}
	return true
}
