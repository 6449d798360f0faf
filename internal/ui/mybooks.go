package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// My Books tabs.
const (
	tabActive = iota
	tabHistory
	tabHolds
	tabCount
)

var tabNames = [tabCount]string{"Active", "History", "Holds"}

type myBooksState struct {
	tab      int
	selected int

	issues              []api.Issue
	reservations        []api.Reservation
	loadingIssues       bool
	loadingReservations bool
	issuesErr           string
	reservationsErr     string
}

func newMyBooksState() myBooksState {
	return myBooksState{}
}

func (s myBooksState) tabLabel() string {
	return tabNames[s.tab]
}

// activeIssues returns loans still out; history returns returned loans.
func (s myBooksState) activeIssues() []api.Issue {
	var out []api.Issue
	for _, issue := range s.issues {
		if !issue.Returned {
			out = append(out, issue)
		}
	}
	return out
}

func (s myBooksState) historyIssues() []api.Issue {
	var out []api.Issue
	for _, issue := range s.issues {
		if issue.Returned {
			out = append(out, issue)
		}
	}
	return out
}

func (s myBooksState) tabLength() int {
	switch s.tab {
	case tabActive:
		return len(s.activeIssues())
	case tabHistory:
		return len(s.historyIssues())
	default:
		return len(s.reservations)
	}
}

func (m Model) handleMyBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.myBooks.tab = (m.myBooks.tab + 1) % tabCount
		m.myBooks.selected = 0
		return m, nil

	case "shift+tab":
		m.myBooks.tab = (m.myBooks.tab + tabCount - 1) % tabCount
		m.myBooks.selected = 0
		return m, nil

	case "j", "down":
		m.myBooks.selected = clamp(m.myBooks.selected+1, m.myBooks.tabLength())
		return m, nil

	case "k", "up":
		m.myBooks.selected = clamp(m.myBooks.selected-1, m.myBooks.tabLength())
		return m, nil

	case "x":
		if m.myBooks.tab != tabHolds || len(m.myBooks.reservations) == 0 {
			return m, nil
		}
		reservation := m.myBooks.reservations[clamp(m.myBooks.selected, len(m.myBooks.reservations))]
		if !reservation.Cancellable() {
			return m.withNotice("Only pending holds can be cancelled", true), nil
		}
		m = m.withNotice("Cancelling hold on "+truncate(reservation.BookTitle(), 40)+"...", false)
		return m, cancelReservationCmd(m, reservation.ID)

	case "R":
		m.myBooks.loadingIssues = true
		m.myBooks.loadingReservations = true
		return m, tea.Batch(fetchIssuesCmd(m), fetchReservationsCmd(m))
	}

	return m, nil
}

func (m Model) handleIssuesMsg(msg issuesMsg) (tea.Model, tea.Cmd) {
	m.myBooks.loadingIssues = false
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		m.myBooks.issuesErr = truncate(msg.err.Error(), 80)
		return m, nil
	}
	m.myBooks.issuesErr = ""
	m.myBooks.issues = msg.issues
	m.myBooks.selected = clamp(m.myBooks.selected, m.myBooks.tabLength())
	return m, nil
}

func (m Model) handleReservationsMsg(msg reservationsMsg) (tea.Model, tea.Cmd) {
	m.myBooks.loadingReservations = false
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		m.myBooks.reservationsErr = truncate(msg.err.Error(), 80)
		return m, nil
	}
	m.myBooks.reservationsErr = ""
	m.myBooks.reservations = msg.reservations
	m.myBooks.selected = clamp(m.myBooks.selected, m.myBooks.tabLength())
	return m, nil
}

func (m Model) handleCancelResult(msg cancelResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		return m.withNotice(truncate(msg.err.Error(), 80), true), nil
	}
	m = m.withNotice("Hold cancelled", false)
	m.myBooks.loadingIssues = true
	m.myBooks.loadingReservations = true
	return m, tea.Batch(fetchIssuesCmd(m), fetchReservationsCmd(m))
}

func (m Model) renderMyBooks() string {
	styles := m.theme.Styles()

	var b strings.Builder
	for i, name := range tabNames {
		if i == m.myBooks.tab {
			b.WriteString(styles.AccentText.Bold(true).Render(name))
		} else {
			b.WriteString(styles.MutedText.Render(name))
		}
		b.WriteString("  ")
	}
	if m.myBooks.loadingIssues || m.myBooks.loadingReservations {
		b.WriteString(styles.MutedText.Render("Loading..."))
	}
	b.WriteString("\n\n")

	// Each list degrades independently when its fetch fails.
	if m.myBooks.tab != tabHolds && m.myBooks.issuesErr != "" {
		b.WriteString(styles.DangerText.Render("Could not load loans: " + m.myBooks.issuesErr))
		b.WriteString("\n\n")
	}
	if m.myBooks.tab == tabHolds && m.myBooks.reservationsErr != "" {
		b.WriteString(styles.DangerText.Render("Could not load holds: " + m.myBooks.reservationsErr))
		b.WriteString("\n\n")
	}

	switch m.myBooks.tab {
	case tabActive:
		m.renderActiveIssues(&b)
	case tabHistory:
		m.renderHistoryIssues(&b)
	case tabHolds:
		m.renderReservations(&b)
	}
	return b.String()
}

func (m Model) renderActiveIssues(b *strings.Builder) {
	styles := m.theme.Styles()
	issues := m.myBooks.activeIssues()
	if len(issues) == 0 {
		b.WriteString(styles.MutedText.Render("No books currently borrowed."))
		return
	}

	now := time.Now()
	for i, issue := range issues {
		line := fmt.Sprintf("%-40s due %s",
			truncate(issue.BookTitle(), 40),
			formatDate(api.ParseDate(issue.DueDate)))
		style := styles.Text
		if i == m.myBooks.selected {
			style = styles.Selected
		}
		b.WriteString(style.Render(truncate(line, m.width-20)))
		if issue.Overdue(now) {
			b.WriteString("  ")
			b.WriteString(styles.DangerText.Render("OVERDUE"))
		}
		if fine := issue.Fine(); fine > 0 {
			b.WriteString("  ")
			b.WriteString(styles.WarningText.Render(fmt.Sprintf("fine %.2f", fine)))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderHistoryIssues(b *strings.Builder) {
	styles := m.theme.Styles()
	issues := m.myBooks.historyIssues()
	if len(issues) == 0 {
		b.WriteString(styles.MutedText.Render("No returned books yet."))
		return
	}

	for i, issue := range issues {
		line := fmt.Sprintf("%-40s returned %s",
			truncate(issue.BookTitle(), 40),
			formatDate(api.ParseDate(issue.ReturnDate)))
		style := styles.Text
		if i == m.myBooks.selected {
			style = styles.Selected
		}
		b.WriteString(style.Render(truncate(line, m.width-20)))
		if fine := issue.Fine(); fine > 0 {
			b.WriteString("  ")
			b.WriteString(styles.WarningText.Render(fmt.Sprintf("fine %.2f", fine)))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderReservations(b *strings.Builder) {
	styles := m.theme.Styles()
	if len(m.myBooks.reservations) == 0 {
		b.WriteString(styles.MutedText.Render("No holds placed."))
		return
	}

	for i, reservation := range m.myBooks.reservations {
		line := fmt.Sprintf("%-40s placed %s",
			truncate(reservation.BookTitle(), 40),
			formatDate(api.ParseDate(reservation.CreatedAt)))
		style := styles.Text
		if i == m.myBooks.selected {
			style = styles.Selected
		}
		b.WriteString(style.Render(truncate(line, m.width-20)))
		b.WriteString("  ")
		b.WriteString(m.reservationBadge(reservation.Status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("x cancels a pending hold"))
}

func (m Model) reservationBadge(status string) string {
	styles := m.theme.Styles()
	switch status {
	case api.ReservationPending:
		return styles.WarningText.Render(status)
	case api.ReservationFulfilled:
		return styles.SuccessText.Render(status)
	case api.ReservationCancelled:
		return styles.FaintText.Render(status)
	default:
		return styles.MutedText.Render(status)
	}
}
