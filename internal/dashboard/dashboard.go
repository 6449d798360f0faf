// Package dashboard aggregates the staff overview counts. The four source
// lists are fetched concurrently and failures are reported per stat, so one
// failing endpoint never blanks the rest of the view.
package dashboard

import (
	"context"
	"sync"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// Source is the slice of the API client the dashboard reads from.
type Source interface {
	ListBooks(ctx context.Context, q api.BookQuery) ([]api.Book, error)
	ListUsers(ctx context.Context) ([]api.User, error)
	ActiveIssues(ctx context.Context) ([]api.Issue, error)
	OverdueIssues(ctx context.Context) ([]api.Issue, error)
}

// Stat is one dashboard cell: a count, or the error that prevented it.
type Stat struct {
	Count int
	Err   error
}

// OK reports whether the stat loaded.
func (s Stat) OK() bool { return s.Err == nil }

// Stats holds the four overview counts. Each cell fails independently.
type Stats struct {
	TotalBooks    Stat
	TotalUsers    Stat
	ActiveIssues  Stat
	OverdueIssues Stat
}

// Failed returns the errors of the stats that did not load.
func (s Stats) Failed() []error {
	var errs []error
	for _, st := range []Stat{s.TotalBooks, s.TotalUsers, s.ActiveIssues, s.OverdueIssues} {
		if st.Err != nil {
			errs = append(errs, st.Err)
		}
	}
	return errs
}

// Gather fetches all four counts concurrently and waits for every fetch to
// settle. A failed fetch is recorded on its own cell and never discards the
// counts that succeeded.
func Gather(ctx context.Context, src Source) Stats {
	var (
		stats Stats
		wg    sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		books, err := src.ListBooks(ctx, api.BookQuery{})
		stats.TotalBooks = Stat{Count: len(books), Err: err}
	}()
	go func() {
		defer wg.Done()
		users, err := src.ListUsers(ctx)
		stats.TotalUsers = Stat{Count: len(users), Err: err}
	}()
	go func() {
		defer wg.Done()
		issues, err := src.ActiveIssues(ctx)
		stats.ActiveIssues = Stat{Count: len(issues), Err: err}
	}()
	go func() {
		defer wg.Done()
		overdue, err := src.OverdueIssues(ctx)
		stats.OverdueIssues = Stat{Count: len(overdue), Err: err}
	}()
	wg.Wait()

	return stats
}
