package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
	"github.com/hemant-crossml/LMS-assignment/internal/catalog"
	"github.com/hemant-crossml/LMS-assignment/internal/dashboard"
)

// Messages produced by async commands. Every fetch resolves to exactly one
// message; errors ride along rather than being separate message types so the
// handler that owns the view decides how to degrade.

type rehydrateMsg struct {
	err error
}

type loginResultMsg struct {
	err error
}

type registerResultMsg struct {
	err error
}

type booksMsg struct {
	ticket uint64
	books  []api.Book
	err    error
}

type categoriesMsg struct {
	categories []api.Category
	err        error
}

type issuesMsg struct {
	issues []api.Issue
	err    error
}

type reservationsMsg struct {
	reservations []api.Reservation
	err          error
}

type reserveResultMsg struct {
	reservation api.Reservation
	err         error
}

type cancelResultMsg struct {
	err error
}

type statsMsg struct {
	stats dashboard.Stats
}

func rehydrateCmd(m Model) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return rehydrateMsg{err: sess.Rehydrate(ctx)}
	}
}

func loginCmd(m Model, username, password string) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return loginResultMsg{err: sess.Login(ctx, username, password)}
	}
}

func registerCmd(m Model, payload api.RegisterPayload) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		return registerResultMsg{err: sess.Register(ctx, payload)}
	}
}

// fetchBooksCmd dispatches a catalog fetch stamped with a sequencer ticket.
// The normal path pushes the query to the service; with client-side filtering
// enabled the full list is fetched and narrowed locally.
func fetchBooksCmd(m Model) tea.Cmd {
	ticket := m.books.seq.Next()
	query := m.books.query
	client, ctx := m.client, m.ctx
	clientSide := m.config.ClientSideFilter
	return func() tea.Msg {
		if clientSide {
			all, err := client.ListBooks(ctx, api.BookQuery{})
			if err != nil {
				return booksMsg{ticket: ticket, err: err}
			}
			return booksMsg{ticket: ticket, books: catalog.Filter(all, query)}
		}
		books, err := client.ListBooks(ctx, query.Params())
		return booksMsg{ticket: ticket, books: books, err: err}
	}
}

func fetchCategoriesCmd(m Model) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		categories, err := client.ListCategories(ctx)
		return categoriesMsg{categories: categories, err: err}
	}
}

func fetchIssuesCmd(m Model) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		issues, err := client.MyIssues(ctx)
		return issuesMsg{issues: issues, err: err}
	}
}

func fetchReservationsCmd(m Model) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		reservations, err := client.MyReservations(ctx)
		return reservationsMsg{reservations: reservations, err: err}
	}
}

func reserveCmd(m Model, bookID int64) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		reservation, err := client.Reserve(ctx, bookID)
		return reserveResultMsg{reservation: reservation, err: err}
	}
}

func cancelReservationCmd(m Model, id int64) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		_, err := client.CancelReservation(ctx, id)
		return cancelResultMsg{err: err}
	}
}

func fetchStatsCmd(m Model) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		return statsMsg{stats: dashboard.Gather(ctx, client)}
	}
}
