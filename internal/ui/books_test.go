package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

func applyBooksMsg(t *testing.T, m Model, msg booksMsg) Model {
	t.Helper()
	next, _ := m.handleBooksMsg(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("handleBooksMsg returned %T, want Model", next)
	}
	return updated
}

func TestHandleBooksMsg_StaleResponseDropped(t *testing.T) {
	m := New(Options{})

	// Two overlapping fetches: the older one completes last.
	stale := m.books.seq.Next()
	latest := m.books.seq.Next()

	current := []api.Book{{ID: 2, Title: "Current"}}
	m = applyBooksMsg(t, m, booksMsg{ticket: latest, books: current})
	if len(m.books.books) != 1 || m.books.books[0].ID != 2 {
		t.Fatalf("books after latest response = %+v, want Current", m.books.books)
	}

	m = applyBooksMsg(t, m, booksMsg{ticket: stale, books: []api.Book{{ID: 1, Title: "Stale"}}})
	if len(m.books.books) != 1 || m.books.books[0].ID != 2 {
		t.Fatalf("stale response overwrote current list: %+v", m.books.books)
	}
}

func TestHandleBooksMsg_ErrorKeepsPreviousList(t *testing.T) {
	m := New(Options{})

	first := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: first, books: []api.Book{{ID: 7, Title: "Kept"}}})

	second := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: second, err: errors.New("connection refused")})

	if len(m.books.books) != 1 || m.books.books[0].ID != 7 {
		t.Fatalf("error response discarded previous list: %+v", m.books.books)
	}
	if m.books.errMsg == "" {
		t.Fatal("fetch failure not surfaced")
	}

	// A later success clears the failure note.
	third := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: third, books: nil})
	if m.books.errMsg != "" {
		t.Fatalf("errMsg = %q after successful fetch, want empty", m.books.errMsg)
	}
}

func TestRenderBooks_ColdStartFailureClaimsNoResults(t *testing.T) {
	m := New(Options{})
	m.width = 80
	m.height = 24

	ticket := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: ticket, err: errors.New("connection refused")})

	view := m.renderBooks()
	if !strings.Contains(view, "Fetch failed") {
		t.Fatalf("failure not surfaced in view:\n%s", view)
	}
	if strings.Contains(view, "Showing last loaded results.") {
		t.Fatalf("view claims previous results on a cold-start failure:\n%s", view)
	}

	// Once a list has loaded, a later failure keeps it and says so.
	next := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: next, books: []api.Book{{ID: 1, Title: "Kept"}}})
	last := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: last, err: errors.New("connection refused")})

	view = m.renderBooks()
	if !strings.Contains(view, "Showing last loaded results.") {
		t.Fatalf("stale-list note missing after a failure with a loaded list:\n%s", view)
	}
}

func TestHandleBooksMsg_SelectionClamped(t *testing.T) {
	m := New(Options{})
	m.books.selected = 5

	ticket := m.books.seq.Next()
	m = applyBooksMsg(t, m, booksMsg{ticket: ticket, books: []api.Book{{ID: 1}, {ID: 2}}})
	if m.books.selected != 1 {
		t.Fatalf("selected = %d after shrink, want 1", m.books.selected)
	}
}
