package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
	"github.com/hemant-crossml/LMS-assignment/internal/config"
	"github.com/hemant-crossml/LMS-assignment/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewBooks
	ViewMyBooks
	ViewDashboard
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Client  *api.Client
	Session *session.Store
	Config  config.Config
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	client  *api.Client
	session *session.Store
	config  config.Config

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// notice is a transient one-line message under the header. noticeErr
	// selects the danger style.
	notice    string
	noticeErr bool

	snap session.Snapshot

	login    loginState
	register registerState
	books    booksState
	myBooks  myBooksState
	dash     dashState
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var snap session.Snapshot
	if opts.Session != nil {
		snap = opts.Session.Snapshot()
	}

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		session:     opts.Session,
		config:      opts.Config,
		theme:       GetTheme("Dracula"),
		currentView: ViewLogin,
		snap:        snap,
		login:       newLoginState(),
		register:    newRegisterState(),
		books:       newBooksState(),
		myBooks:     newMyBooksState(),
	}
}

// Run starts the Bubble Tea program and blocks until quit.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return rehydrateCmd(m)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case rehydrateMsg:
		m.snap = m.session.Snapshot()
		if m.snap.Authenticated {
			m.currentView = ViewBooks
			m.books.loading = true
			return m, tea.Batch(fetchBooksCmd(m), fetchCategoriesCmd(m))
		}
		m.currentView = ViewLogin
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case booksMsg:
		return m.handleBooksMsg(msg)

	case categoriesMsg:
		return m.handleCategoriesMsg(msg)

	case issuesMsg:
		return m.handleIssuesMsg(msg)

	case reservationsMsg:
		return m.handleReservationsMsg(msg)

	case reserveResultMsg:
		return m.handleReserveResult(msg)

	case cancelResultMsg:
		return m.handleCancelResult(msg)

	case statsMsg:
		// A stale credential fails all four fetches the same way; one 401
		// is enough to drop the session.
		for _, err := range msg.stats.Failed() {
			if api.IsUnauthorized(err) {
				return m.expireSession(), nil
			}
		}
		m.dash.stats = msg.stats
		m.dash.loading = false
		m.dash.loaded = true
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.snap.Loading {
		return m.theme.Styles().MutedText.Render("Restoring session...")
	}

	var body string
	switch m.currentView {
	case ViewLogin:
		body = m.renderLogin()
	case ViewRegister:
		body = m.renderRegister()
	case ViewBooks:
		body = m.renderBooks()
	case ViewMyBooks:
		body = m.renderMyBooks()
	case ViewDashboard:
		body = m.renderDashboard()
	}

	sections := []string{m.renderHeader()}
	if m.notice != "" {
		sections = append(sections, m.renderNotice())
	}
	sections = append(sections, body, m.renderCommandBar())
	return strings.Join(sections, "\n")
}

// handleKey routes keyboard input. Global bindings apply only outside text
// entry so typed characters are never stolen from a focused input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.typing() {
		switch msg.String() {
		case "e":
			return m, tea.Quit
		case "T":
			m.theme = GetTheme(NextTheme(m.theme.Name))
			return m, nil
		}

		if m.snap.Authenticated {
			switch msg.String() {
			case "1":
				return m.switchToBooks()
			case "2":
				return m.switchToMyBooks()
			case "3":
				if m.staff() {
					return m.switchToDashboard()
				}
				return m.withNotice("Dashboard is staff only", true), nil
			case "o":
				return m.logout()
			}
		}
	}

	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewMyBooks:
		return m.handleMyBooksKey(msg)
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

// typing reports whether a text input currently owns the keyboard.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewLogin, ViewRegister:
		return true
	case ViewBooks:
		return m.books.searchFocused
	}
	return false
}

func (m Model) staff() bool {
	return m.snap.User != nil &&
		(m.snap.User.UserType == api.UserTypeStaff || m.snap.User.IsStaff)
}

func (m Model) switchToBooks() (tea.Model, tea.Cmd) {
	m.currentView = ViewBooks
	m.notice = ""
	if m.books.books == nil && !m.books.loading {
		m.books.loading = true
		return m, tea.Batch(fetchBooksCmd(m), fetchCategoriesCmd(m))
	}
	return m, nil
}

func (m Model) switchToMyBooks() (tea.Model, tea.Cmd) {
	m.currentView = ViewMyBooks
	m.notice = ""
	m.myBooks.loadingIssues = true
	m.myBooks.loadingReservations = true
	return m, tea.Batch(fetchIssuesCmd(m), fetchReservationsCmd(m))
}

func (m Model) switchToDashboard() (tea.Model, tea.Cmd) {
	m.currentView = ViewDashboard
	m.notice = ""
	m.dash.loading = true
	return m, fetchStatsCmd(m)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	m.session.Logout()
	return m.resetToLogin("Logged out"), nil
}

// expireSession is the shared 401 path: clear credentials and drop to the
// login view with a notice. Permission errors (403) never come through here.
func (m Model) expireSession() Model {
	m.session.Invalidate()
	return m.resetToLogin("Session expired, please log in again")
}

func (m Model) resetToLogin(notice string) Model {
	m.snap = m.session.Snapshot()
	m.currentView = ViewLogin
	m.login = newLoginState()
	m.register = newRegisterState()
	m.books = newBooksState()
	m.myBooks = newMyBooksState()
	m.dash = dashState{}
	m.notice = notice
	m.noticeErr = false
	return m
}

func (m Model) withNotice(text string, isErr bool) Model {
	m.notice = text
	m.noticeErr = isErr
	return m
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	parts := []string{styles.Logo.Render("lms")}
	if m.snap.Authenticated && m.snap.User != nil {
		parts = append(parts, styles.Text.Render(m.snap.User.DisplayName()))
		if m.staff() {
			parts = append(parts, styles.InfoText.Render("[staff]"))
		}

		tabs := []struct {
			view  View
			label string
		}{
			{ViewBooks, "1:Books"},
			{ViewMyBooks, "2:My Books"},
		}
		if m.staff() {
			tabs = append(tabs, struct {
				view  View
				label string
			}{ViewDashboard, "3:Dashboard"})
		}
		for _, tab := range tabs {
			if m.currentView == tab.view {
				parts = append(parts, styles.AccentText.Bold(true).Render(tab.label))
			} else {
				parts = append(parts, styles.MutedText.Render(tab.label))
			}
		}
	} else {
		parts = append(parts, styles.MutedText.Render("Library catalog client"))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	if m.noticeErr {
		return styles.DangerText.Render(" " + m.notice)
	}
	return styles.WarningText.Render(" " + m.notice)
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogin:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Enter", "Sign in"},
			{"Ctrl+R", "Register"},
			{"Ctrl+C", "Quit"},
		}
	case ViewRegister:
		commands = []cmd{
			{"Tab", "Next field"},
			{"Ctrl+T", "User type"},
			{"Enter", "Create account"},
			{"Esc", "Back"},
		}
	case ViewBooks:
		commands = []cmd{
			{"/", "Search"},
			{"c", "Category"},
			{"L", "Language"},
			{"j/k", "Navigate"},
			{"Enter", "Details"},
			{"r", "Reserve"},
			{"o", "Logout"},
		}
	case ViewMyBooks:
		commands = []cmd{
			{"Tab", m.myBooks.tabLabel()},
			{"j/k", "Navigate"},
			{"x", "Cancel hold"},
			{"R", "Refresh"},
			{"o", "Logout"},
		}
	case ViewDashboard:
		commands = []cmd{
			{"R", "Refresh"},
			{"o", "Logout"},
		}
	}

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			styles.AccentText.Render(c.key)+styles.MutedText.Render(":"+c.desc))
	}
	segments = append(segments,
		styles.AccentText.Render("T")+styles.FaintText.Render(":"+m.theme.Name))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, "  "))
}
