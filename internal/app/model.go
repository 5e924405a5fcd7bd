// Package app is the bubbletea model for the NovelTTS TUI: a catalog screen
// and a reader screen sharing one reading session.
package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noveltts/noveltts/internal/catalog"
	"github.com/noveltts/noveltts/internal/config"
	"github.com/noveltts/noveltts/internal/playback"
	"github.com/noveltts/noveltts/internal/session"
	"github.com/noveltts/noveltts/internal/ui"
)

type screenID int

const (
	screenCatalog screenID = iota
	screenReader
)

type promptKind int

const (
	promptNone promptKind = iota
	promptJump
	promptAdd
)

// entryItem adapts a catalog entry to the bubbles list.
type entryItem struct {
	entry catalog.Entry
}

func (i entryItem) Title() string       { return i.entry.Title() }
func (i entryItem) Description() string { return i.entry.Location }
func (i entryItem) FilterValue() string { return i.entry.Title() }

// Model is the root bubbletea model.
type Model struct {
	sess       *session.Session
	cat        *catalog.Catalog
	settings   config.Settings
	configPath string
	theme      ui.Theme

	list   list.Model
	input  textinput.Model
	prompt promptKind

	screen screenID
	width  int
	height int

	title        string
	page         int
	pageCount    int
	pageText     string
	phase        playback.Phase
	highlight    playback.Range
	hasHighlight bool

	status      string
	openOnStart string
	quitting    bool
}

// New creates the root model. openOnStart, when non-empty, is a document
// location opened immediately after startup.
func New(sess *session.Session, cat *catalog.Catalog, settings config.Settings, configPath, openOnStart string) Model {
	l := list.New(entryItems(cat.Entries()), list.NewDefaultDelegate(), 0, 0)
	l.Title = "NovelTTS"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	input := textinput.New()
	input.CharLimit = 256

	return Model{
		sess:        sess,
		cat:         cat,
		settings:    settings,
		configPath:  configPath,
		theme:       ui.NewTheme(settings.DarkTheme),
		list:        l,
		input:       input,
		screen:      screenCatalog,
		openOnStart: openOnStart,
		width:       80,
		height:      24,
	}
}

func entryItems(entries []catalog.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenCmd(m.sess)}
	if m.openOnStart != "" {
		cmds = append(cmds, openCmd(m.sess, m.openOnStart))
	}
	return tea.Batch(cmds...)
}

// listenCmd waits for the next session event.
func listenCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sess.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{Event: ev}
	}
}

// openCmd opens a document off the update loop; opening parses the whole
// PDF cross-reference table and can take a moment for large files.
func openCmd(sess *session.Session, location string) tea.Cmd {
	return func() tea.Msg {
		return openResultMsg{Err: sess.Open(location)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case sessionEventMsg:
		m.applyEvent(msg.Event)
		return m, listenCmd(m.sess)

	case openResultMsg:
		if msg.Err != nil {
			m.status = "Could not open document."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applyEvent(ev session.Event) {
	switch ev := ev.(type) {
	case session.Opened:
		m.title = ev.Title
		m.pageCount = ev.PageCount
		m.page = 0
		m.pageText = ""
		m.status = ""
		m.screen = screenReader

	case session.Closed:
		m.screen = screenCatalog
		m.pageText = ""
		m.hasHighlight = false

	case session.PageChanged:
		m.page = ev.Page
		m.pageCount = ev.PageCount
		m.pageText = ""

	case session.TextUpdated:
		if ev.Page == m.page {
			m.pageText = ev.Text
		}

	case session.PlaybackChanged:
		m.phase = ev.Phase
		m.highlight = ev.Highlight
		m.hasHighlight = ev.HasHighlight
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}

	if m.screen == screenReader {
		return m.handleReaderKey(msg)
	}
	return m.handleCatalogKey(msg)
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit:
		m.quitting = true
		return m, tea.Quit

	case KeyEnter:
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, openCmd(m.sess, item.entry.Location)
		}
		return m, nil

	case KeyAdd:
		m.prompt = promptAdd
		m.input.Placeholder = "path to PDF"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case KeyDelete:
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			if err := m.cat.Remove(item.entry.ID); err != nil {
				m.status = "Could not update catalog."
			}
			m.list.SetItems(entryItems(m.cat.Entries()))
		}
		return m, nil

	case KeyTheme:
		m.settings.DarkTheme = !m.settings.DarkTheme
		m.theme = ui.NewTheme(m.settings.DarkTheme)
		if err := config.Save(m.configPath, m.settings); err != nil {
			m.status = "Could not save settings."
		}
		return m, nil

	case KeyFactoryWipe:
		// factory reset: drop the catalog key and restore default settings
		if err := m.cat.Clear(); err != nil {
			m.status = "Could not clear catalog."
			return m, nil
		}
		m.settings = config.Default()
		m.theme = ui.NewTheme(m.settings.DarkTheme)
		if err := config.Save(m.configPath, m.settings); err != nil {
			m.status = "Could not save settings."
		}
		m.list.SetItems(nil)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleReaderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeySpace:
		m.sess.TogglePlayPause()

	case KeyLeft:
		m.sess.Previous()

	case KeyRight:
		m.sess.Next()

	case KeyStop:
		m.sess.Stop()

	case KeyPause:
		m.sess.Pause()

	case KeyResume:
		m.sess.Resume()

	case KeyJump:
		m.prompt = promptJump
		m.input.Placeholder = fmt.Sprintf("page (1-%d)", m.pageCount)
		m.input.SetValue("")
		m.input.Focus()

	case KeyEsc, KeyQuit:
		m.sess.Close()
	}

	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		prompt := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		return m.commitPrompt(prompt, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitPrompt(prompt promptKind, value string) (tea.Model, tea.Cmd) {
	switch prompt {
	case promptJump:
		// non-numeric or out-of-range input is silently ignored
		if page, ok := parsePageInput(value, m.pageCount); ok {
			if err := m.sess.GoTo(page); err != nil {
				return m, nil
			}
		}

	case promptAdd:
		if value == "" {
			return m, nil
		}
		if _, err := m.cat.Append(value); err != nil {
			m.status = "Could not update catalog."
			return m, nil
		}
		m.list.SetItems(entryItems(m.cat.Entries()))
	}

	return m, nil
}

// parsePageInput converts a 1-based page string into a zero-based index.
// The bool is false for non-numeric or out-of-range input.
func parsePageInput(value string, pageCount int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > pageCount {
		return 0, false
	}
	return n - 1, true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.prompt != promptNone {
		return m.promptView()
	}
	if m.screen == screenReader {
		return m.readerView()
	}
	return m.catalogView()
}

func (m Model) catalogView() string {
	var sb strings.Builder
	sb.WriteString(m.list.View())
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.theme.Error.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.theme.Controls.Render(
		"ENTER: open  A: add  D: delete  T: theme  R: factory reset  Q: quit"))
	return sb.String()
}

func (m Model) promptView() string {
	label := "Go to page"
	if m.prompt == promptAdd {
		label = "Add document"
	}
	return fmt.Sprintf("\n  %s\n\n  %s\n\n  %s",
		m.theme.Title.Render(label),
		m.input.View(),
		m.theme.Controls.Render("ENTER: confirm  ESC: cancel"))
}

func (m Model) readerView() string {
	header := m.theme.Title.Render(m.title) + m.theme.Status.Render(
		fmt.Sprintf("page %d/%d", m.page+1, m.pageCount))

	switch m.phase {
	case playback.Speaking:
		header += m.theme.Speaking.Render("[SPEAKING]")
	case playback.Paused:
		header += m.theme.Paused.Render("[PAUSED]")
	}

	body := m.pageText
	if body == "" {
		body = "..."
	} else {
		body = renderHighlighted(body, m.highlight, m.hasHighlight, m.theme)
	}
	width := m.width - 4
	if width < 10 {
		width = 10
	}
	body = lipgloss.NewStyle().Width(width).Padding(1, 2).Render(body)

	controls := m.theme.Controls.Render(
		"SPACE: play/pause  ←/→: page  G: go to  S: stop  P: pause  R: resume  ESC: library")

	avail := m.height - lipgloss.Height(header) - lipgloss.Height(controls) - 1
	if lines := lipgloss.Height(body); lines < avail {
		body += strings.Repeat("\n", avail-lines)
	}

	return header + "\n" + body + "\n" + controls
}

// renderHighlighted styles the sub-range currently being vocalized. Offsets
// outside the text (stale by one event) degrade to no highlight.
func renderHighlighted(text string, r playback.Range, has bool, theme ui.Theme) string {
	if !has || r.Length <= 0 || r.Offset < 0 || r.Offset+r.Length > len(text) {
		return theme.PageText.Render(text)
	}
	return theme.PageText.Render(text[:r.Offset]) +
		theme.Highlight.Render(text[r.Offset:r.Offset+r.Length]) +
		theme.PageText.Render(text[r.Offset+r.Length:])
}
