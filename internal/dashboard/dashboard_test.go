package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

type fakeSource struct {
	books      []api.Book
	booksErr   error
	users      []api.User
	usersErr   error
	active     []api.Issue
	activeErr  error
	overdue    []api.Issue
	overdueErr error
}

func (f *fakeSource) ListBooks(context.Context, api.BookQuery) ([]api.Book, error) {
	return f.books, f.booksErr
}
func (f *fakeSource) ListUsers(context.Context) ([]api.User, error) { return f.users, f.usersErr }
func (f *fakeSource) ActiveIssues(context.Context) ([]api.Issue, error) {
	return f.active, f.activeErr
}
func (f *fakeSource) OverdueIssues(context.Context) ([]api.Issue, error) {
	return f.overdue, f.overdueErr
}

func TestGather_AllSucceed(t *testing.T) {
	src := &fakeSource{
		books:   make([]api.Book, 12),
		users:   make([]api.User, 5),
		active:  make([]api.Issue, 3),
		overdue: make([]api.Issue, 1),
	}

	stats := Gather(context.Background(), src)

	if got := stats.TotalBooks.Count; got != 12 {
		t.Fatalf("TotalBooks = %d, want 12", got)
	}
	if got := stats.TotalUsers.Count; got != 5 {
		t.Fatalf("TotalUsers = %d, want 5", got)
	}
	if got := stats.ActiveIssues.Count; got != 3 {
		t.Fatalf("ActiveIssues = %d, want 3", got)
	}
	if got := stats.OverdueIssues.Count; got != 1 {
		t.Fatalf("OverdueIssues = %d, want 1", got)
	}
	if errs := stats.Failed(); len(errs) != 0 {
		t.Fatalf("Failed() = %v, want none", errs)
	}
}

func TestGather_OneFailureKeepsRest(t *testing.T) {
	boom := errors.New("service unavailable")
	src := &fakeSource{
		books:      make([]api.Book, 8),
		users:      make([]api.User, 2),
		active:     make([]api.Issue, 4),
		overdueErr: boom,
	}

	stats := Gather(context.Background(), src)

	if !stats.TotalBooks.OK() || stats.TotalBooks.Count != 8 {
		t.Fatalf("TotalBooks = %+v, want 8 ok", stats.TotalBooks)
	}
	if !stats.ActiveIssues.OK() || stats.ActiveIssues.Count != 4 {
		t.Fatalf("ActiveIssues = %+v, want 4 ok", stats.ActiveIssues)
	}
	if stats.OverdueIssues.OK() {
		t.Fatal("OverdueIssues.OK() = true, want failure recorded")
	}
	if !errors.Is(stats.OverdueIssues.Err, boom) {
		t.Fatalf("OverdueIssues.Err = %v, want %v", stats.OverdueIssues.Err, boom)
	}
	if errs := stats.Failed(); len(errs) != 1 {
		t.Fatalf("Failed() = %v, want exactly one error", errs)
	}
}

func TestGather_AllFail(t *testing.T) {
	src := &fakeSource{
		booksErr:   errors.New("books down"),
		usersErr:   errors.New("users down"),
		activeErr:  errors.New("issues down"),
		overdueErr: errors.New("overdue down"),
	}

	stats := Gather(context.Background(), src)
	if errs := stats.Failed(); len(errs) != 4 {
		t.Fatalf("Failed() = %d errors, want 4", len(errs))
	}
}
