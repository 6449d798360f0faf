package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
)

// Registration form field order.
const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
	fieldFirstName
	fieldLastName
	fieldPhone
	fieldAddress
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Username", "Email", "Password", "First name", "Last name", "Phone", "Address",
}

// fieldNames are the wire names the service reports validation errors under.
var fieldNames = [fieldCount]string{
	"username", "email", "password", "first_name", "last_name", "phone", "address",
}

var userTypes = []string{api.UserTypeStudent, api.UserTypeExternal, api.UserTypeStaff}

type registerState struct {
	inputs      [fieldCount]textinput.Model
	focus       int
	userTypeIdx int
	busy        bool
	errMsg      string
	fieldErrs   map[string]string
}

func newRegisterState() registerState {
	var s registerState
	for i := range s.inputs {
		input := textinput.New()
		input.Placeholder = strings.ToLower(fieldLabels[i])
		input.CharLimit = 150
		if i == fieldPassword {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '*'
		}
		s.inputs[i] = input
	}
	s.inputs[fieldUsername].Focus()
	return s
}

func (s *registerState) setFocus(i int) {
	s.focus = (i + fieldCount) % fieldCount
	for j := range s.inputs {
		if j == s.focus {
			s.inputs[j].Focus()
		} else {
			s.inputs[j].Blur()
		}
	}
}

func (s registerState) payload() api.RegisterPayload {
	return api.RegisterPayload{
		Username:  strings.TrimSpace(s.inputs[fieldUsername].Value()),
		Email:     strings.TrimSpace(s.inputs[fieldEmail].Value()),
		Password:  s.inputs[fieldPassword].Value(),
		FirstName: strings.TrimSpace(s.inputs[fieldFirstName].Value()),
		LastName:  strings.TrimSpace(s.inputs[fieldLastName].Value()),
		Phone:     strings.TrimSpace(s.inputs[fieldPhone].Value()),
		Address:   strings.TrimSpace(s.inputs[fieldAddress].Value()),
		UserType:  userTypes[s.userTypeIdx],
	}
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.currentView = ViewLogin
		m.login = newLoginState()
		return m, nil

	case "tab", "down":
		m.register.setFocus(m.register.focus + 1)
		return m, nil

	case "shift+tab", "up":
		m.register.setFocus(m.register.focus - 1)
		return m, nil

	case "ctrl+t":
		m.register.userTypeIdx = (m.register.userTypeIdx + 1) % len(userTypes)
		return m, nil

	case "enter":
		if m.register.busy {
			return m, nil
		}
		payload := m.register.payload()
		if payload.Username == "" || payload.Password == "" {
			m.register.errMsg = "Username and password are required"
			return m, nil
		}
		m.register.busy = true
		m.register.errMsg = ""
		m.register.fieldErrs = nil
		return m, registerCmd(m, payload)
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focus], cmd = m.register.inputs[m.register.focus].Update(msg)
	return m, cmd
}

func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.register.busy = false
	if msg.err != nil {
		if ve, ok := api.AsValidationError(msg.err); ok {
			errs := make(map[string]string, len(ve.Fields))
			for field := range ve.Fields {
				errs[field] = ve.First(field)
			}
			m.register.fieldErrs = errs
			m.register.errMsg = "Please fix the highlighted fields"
			return m, nil
		}
		m.register.errMsg = truncate(msg.err.Error(), 80)
		return m, nil
	}

	// Registration chains straight into a session.
	m.snap = m.session.Snapshot()
	m.currentView = ViewBooks
	m.books = newBooksState()
	m.books.loading = true
	if m.snap.User != nil {
		m = m.withNotice("Account created, welcome "+m.snap.User.DisplayName(), false)
	}
	return m, tea.Batch(fetchBooksCmd(m), fetchCategoriesCmd(m))
}

func (m Model) renderRegister() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Create account"))
	b.WriteString("\n\n")

	for i := range m.register.inputs {
		b.WriteString(styles.MutedText.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.register.inputs[i].View())
		if msg, ok := m.register.fieldErrs[fieldNames[i]]; ok {
			b.WriteString("\n")
			b.WriteString(styles.DangerText.Render(truncate(msg, 70)))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(styles.MutedText.Render("User type "))
	b.WriteString(styles.InfoText.Render(userTypes[m.register.userTypeIdx]))
	b.WriteString(styles.FaintText.Render("  (Ctrl+T to change)"))
	b.WriteString("\n")

	if m.register.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(m.register.errMsg))
		b.WriteString("\n")
	}
	if m.register.busy {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Creating account..."))
		b.WriteString("\n")
	}

	return styles.Panel.Width(min(m.width-2, 60)).Render(b.String())
}
