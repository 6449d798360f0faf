package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

type loginState struct {
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errMsg   string
}

func newLoginState() loginState {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginState{username: username, password: password}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.currentView = ViewRegister
		m.register = newRegisterState()
		m.notice = ""
		return m, nil

	case "tab", "down", "shift+tab", "up":
		m.login.focus = (m.login.focus + 1) % 2
		if m.login.focus == 0 {
			m.login.username.Focus()
			m.login.password.Blur()
		} else {
			m.login.username.Blur()
			m.login.password.Focus()
		}
		return m, nil

	case "enter":
		if m.login.busy {
			return m, nil
		}
		username := strings.TrimSpace(m.login.username.Value())
		password := m.login.password.Value()
		if username == "" || password == "" {
			m.login.errMsg = "Username and password are required"
			return m, nil
		}
		m.login.busy = true
		m.login.errMsg = ""
		return m, loginCmd(m, username, password)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.username, cmd = m.login.username.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			m.login.errMsg = "Invalid username or password"
		} else {
			m.login.errMsg = truncate(msg.err.Error(), 80)
		}
		return m, nil
	}

	m.snap = m.session.Snapshot()
	m.currentView = ViewBooks
	m.books = newBooksState()
	m.books.loading = true
	if m.snap.User != nil {
		m = m.withNotice("Welcome, "+m.snap.User.DisplayName(), false)
	}
	return m, tea.Batch(fetchBooksCmd(m), fetchCategoriesCmd(m))
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.login.username.View())
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n")

	if m.login.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(m.login.errMsg))
		b.WriteString("\n")
	}
	if m.login.busy {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Signing in..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("No account yet? Press Ctrl+R to register."))

	return styles.Panel.Width(min(m.width-2, 60)).Render(b.String())
}
