package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hemant-crossml/LMS-assignment/internal/api"
	"github.com/hemant-crossml/LMS-assignment/internal/catalog"
)

// languages offered by the filter cycle. The empty entry means unfiltered.
var languages = []string{"", "English", "Hindi", "French", "German", "Spanish"}

type booksState struct {
	seq   *catalog.Sequencer
	query catalog.Query

	search        textinput.Model
	searchFocused bool

	categories []api.Category
	catIdx     int // 0 = all, otherwise categories[catIdx-1]
	langIdx    int

	books      []api.Book
	loading    bool
	errMsg     string
	selected   int
	showDetail bool
}

func newBooksState() booksState {
	search := textinput.New()
	search.Placeholder = "title, author, or ISBN"
	search.CharLimit = 120
	return booksState{seq: &catalog.Sequencer{}, search: search}
}

func (s booksState) categoryLabel() string {
	if s.catIdx == 0 || s.catIdx > len(s.categories) {
		return "All"
	}
	return s.categories[s.catIdx-1].Name
}

func (s booksState) languageLabel() string {
	if languages[s.langIdx] == "" {
		return "All"
	}
	return languages[s.langIdx]
}

func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.books.searchFocused {
		switch msg.String() {
		case "enter", "esc":
			m.books.searchFocused = false
			m.books.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.books.search, cmd = m.books.search.Update(msg)
		// Each keystroke re-queries; the sequencer drops stale responses.
		if m.books.search.Value() != m.books.query.Search {
			m.books.query.Search = m.books.search.Value()
			m.books.loading = true
			return m, tea.Batch(cmd, fetchBooksCmd(m))
		}
		return m, cmd
	}

	if m.books.showDetail {
		switch msg.String() {
		case "esc", "enter":
			m.books.showDetail = false
			return m, nil
		case "r":
			return m.reserveSelected()
		}
		return m, nil
	}

	switch msg.String() {
	case "/":
		m.books.searchFocused = true
		m.books.search.Focus()
		return m, nil

	case "c":
		m.books.catIdx = (m.books.catIdx + 1) % (len(m.books.categories) + 1)
		if m.books.catIdx == 0 {
			m.books.query.Category = ""
		} else {
			m.books.query.Category = strconv.FormatInt(m.books.categories[m.books.catIdx-1].ID, 10)
		}
		m.books.loading = true
		return m, fetchBooksCmd(m)

	case "L":
		m.books.langIdx = (m.books.langIdx + 1) % len(languages)
		m.books.query.Language = languages[m.books.langIdx]
		m.books.loading = true
		return m, fetchBooksCmd(m)

	case "esc":
		if !m.books.query.IsZero() {
			m.books.query = catalog.Query{}
			m.books.search.SetValue("")
			m.books.catIdx = 0
			m.books.langIdx = 0
			m.books.loading = true
			return m, fetchBooksCmd(m)
		}
		return m, nil

	case "j", "down":
		m.books.selected = clamp(m.books.selected+1, len(m.books.books))
		return m, nil

	case "k", "up":
		m.books.selected = clamp(m.books.selected-1, len(m.books.books))
		return m, nil

	case "g":
		m.books.selected = 0
		return m, nil

	case "G":
		m.books.selected = clamp(len(m.books.books)-1, len(m.books.books))
		return m, nil

	case "enter":
		if len(m.books.books) > 0 {
			m.books.showDetail = true
		}
		return m, nil

	case "r":
		return m.reserveSelected()

	case "R":
		m.books.loading = true
		return m, tea.Batch(fetchBooksCmd(m), fetchCategoriesCmd(m))
	}

	return m, nil
}

func (m Model) reserveSelected() (tea.Model, tea.Cmd) {
	if len(m.books.books) == 0 {
		return m, nil
	}
	book := m.books.books[clamp(m.books.selected, len(m.books.books))]
	m = m.withNotice("Reserving "+truncate(book.Title, 40)+"...", false)
	return m, reserveCmd(m, book.ID)
}

func (m Model) handleBooksMsg(msg booksMsg) (tea.Model, tea.Cmd) {
	// A response for a superseded filter state must never overwrite the
	// current one.
	if !m.books.seq.Accept(msg.ticket) {
		return m, nil
	}
	m.books.loading = false

	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		// Keep the previous list on screen; the failure is advisory.
		m.books.errMsg = truncate(msg.err.Error(), 80)
		return m, nil
	}

	m.books.errMsg = ""
	m.books.books = msg.books
	m.books.selected = clamp(m.books.selected, len(msg.books))
	m.books.showDetail = m.books.showDetail && len(msg.books) > 0
	return m, nil
}

func (m Model) handleCategoriesMsg(msg categoriesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		// Category cycling stays unavailable until a refresh succeeds.
		return m, nil
	}
	m.books.categories = msg.categories
	if m.books.catIdx > len(msg.categories) {
		m.books.catIdx = 0
		m.books.query.Category = ""
	}
	return m, nil
}

func (m Model) handleReserveResult(msg reserveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsUnauthorized(msg.err) {
			return m.expireSession(), nil
		}
		if ve, ok := api.AsValidationError(msg.err); ok {
			return m.withNotice(truncate(ve.Error(), 80), true), nil
		}
		return m.withNotice(truncate(msg.err.Error(), 80), true), nil
	}

	m = m.withNotice("Reserved "+truncate(msg.reservation.BookTitle(), 40), false)
	// Availability counts may have shifted.
	m.books.loading = true
	return m, fetchBooksCmd(m)
}

func (m Model) renderBooks() string {
	styles := m.theme.Styles()

	if m.books.showDetail {
		return m.renderBookDetail()
	}

	var b strings.Builder

	// Filter bar
	searchLabel := styles.MutedText.Render("Search ")
	if m.books.searchFocused {
		searchLabel = styles.AccentText.Render("Search ")
	}
	b.WriteString(searchLabel)
	b.WriteString(m.books.search.View())
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render("Category "))
	b.WriteString(styles.InfoText.Render(m.books.categoryLabel()))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render("Language "))
	b.WriteString(styles.InfoText.Render(m.books.languageLabel()))
	if m.books.loading {
		b.WriteString("  ")
		b.WriteString(styles.MutedText.Render("Loading..."))
	}
	b.WriteString("\n\n")

	if m.books.errMsg != "" {
		b.WriteString(styles.DangerText.Render("Fetch failed: " + m.books.errMsg))
		b.WriteString("\n")
		if len(m.books.books) > 0 {
			b.WriteString(styles.MutedText.Render("Showing last loaded results."))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.books.books) == 0 {
		if !m.books.loading && m.books.errMsg == "" {
			b.WriteString(styles.MutedText.Render("No books match the current filters."))
		}
		return b.String()
	}

	rows := m.height - 8
	if rows < 3 {
		rows = 3
	}
	offset := 0
	if m.books.selected >= rows {
		offset = m.books.selected - rows + 1
	}

	for i := offset; i < len(m.books.books) && i < offset+rows; i++ {
		book := m.books.books[i]
		line := fmt.Sprintf("%-40s %-24s %4d  %s",
			truncate(book.Title, 40),
			truncate(book.AuthorNames(), 24),
			book.PublicationYear,
			m.availabilityBadge(book))
		if i == m.books.selected {
			b.WriteString(styles.Selected.Render(truncate(line, m.width-2)))
		} else {
			b.WriteString(styles.Text.Render(truncate(line, m.width-2)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(formatCount(len(m.books.books), "book", "books")))
	return b.String()
}

func (m Model) availabilityBadge(book api.Book) string {
	styles := m.theme.Styles()
	if book.Available() {
		return styles.SuccessText.Render(fmt.Sprintf("Available (%d)", book.AvailableCopies))
	}
	return styles.DangerText.Render("Out of stock")
}

func (m Model) renderBookDetail() string {
	styles := m.theme.Styles()
	book := m.books.books[clamp(m.books.selected, len(m.books.books))]

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(book.Title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	row("Authors", book.AuthorNames())
	row("Category", book.Category.Name)
	row("Publisher", book.Publisher.Name)
	row("Language", book.Language)
	if book.PublicationYear > 0 {
		row("Published", strconv.Itoa(book.PublicationYear))
	}
	if book.TotalPages > 0 {
		row("Pages", strconv.Itoa(book.TotalPages))
	}
	row("ISBN", book.ISBN)

	b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-12s", "Copies")))
	b.WriteString(m.availabilityBadge(book))
	if book.TotalCopies > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf(" of %d total", book.TotalCopies)))
	}
	b.WriteString("\n")

	if book.Description != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(truncate(book.Description, 500)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("r:Reserve  Esc:Back"))

	return styles.PanelFocus.Width(min(m.width-2, 80)).Render(b.String())
}
