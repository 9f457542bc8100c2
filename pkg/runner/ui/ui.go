// Package ui hosts the Bubble Tea list editor.
package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/settings"
	"tableflip.dev/jot/pkg/store"
)

// UI runs the editor until the user quits.
type UI struct {
	Service *app.Service
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("can not open editor, no service")
	}
	m := New(ctx, u.Service)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Model edits one row at a time. The focused row is a text input; every
// keystroke is applied to the service, so typed markers take effect as soon
// as they are complete.
type Model struct {
	ctx context.Context
	svc *app.Service

	entries  []*entry.Entry
	focus    int
	settings settings.Settings
	status   string
	err      error

	input textinput.Model
	help  help.Model

	width  int
	height int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	clipboard func() (string, error)
}

type updateMsg struct{}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// New builds the model and loads the current list.
func New(ctx context.Context, svc *app.Service) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "…"
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	ti.Focus()

	m := &Model{
		ctx:       ctx,
		svc:       svc,
		input:     ti,
		help:      help.New(),
		settings:  settings.Default(),
		clipboard: clipboard.ReadAll,
	}
	m.refresh("")
	if len(m.entries) > 0 {
		// Start on the trailing placeholder, ready to type.
		m.focusOn(len(m.entries) - 1)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) waitForUpdate() tea.Cmd {
	ch := m.svc.Updates()
	return func() tea.Msg {
		select {
		case <-ch:
			return updateMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-8)
		m.help.Width = msg.Width

	case updateMsg:
		m.refresh(m.focusedID())
		cmds = append(cmds, m.waitForUpdate())

	case watchStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.watchCh, m.watchCancel = msg.ch, msg.cancel
		cmds = append(cmds, m.waitForWatch())

	case watchEventMsg:
		if msg.event.Type == store.EventChanged {
			m.setErr(m.svc.Reload(m.ctx))
			m.refresh(m.focusedID())
		}
		cmds = append(cmds, m.waitForWatch())

	case watchStoppedMsg:
		m.watchCh = nil

	case tea.KeyMsg:
		if m.handleKey(msg, &cmds) {
			m.stopWatch()
			return m, tea.Quit
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey applies a key press and reports whether the editor should quit.
func (m *Model) handleKey(msg tea.KeyMsg, cmds *[]tea.Cmd) bool {
	cur := m.current()
	if cur == nil {
		return key.Matches(msg, keys.Quit)
	}
	m.err = nil

	switch {
	case key.Matches(msg, keys.Quit):
		return true

	case key.Matches(msg, keys.Up):
		m.focusOn(m.focus - 1)

	case key.Matches(msg, keys.Down):
		m.focusOn(m.focus + 1)

	case key.Matches(msg, keys.Enter):
		next, err := m.svc.Enter(m.ctx, cur.ID)
		if m.setErr(err) {
			return false
		}
		m.refresh(next.ID)

	case key.Matches(msg, keys.Toggle):
		_, err := m.svc.ToggleCheck(m.ctx, cur.ID)
		m.setErr(err)
		m.refresh(cur.ID)

	case key.Matches(msg, keys.Delete):
		if cur.Placeholder {
			return false
		}
		at := m.focus
		m.setErr(m.svc.Remove(m.ctx, cur.ID))
		m.refresh("")
		m.focusOn(min(at, len(m.entries)-1))

	case key.Matches(msg, keys.Paste):
		m.paste(cur)

	case key.Matches(msg, keys.Save):
		m.setErr(m.svc.Save(m.ctx))
		m.refresh(cur.ID)

	case msg.Type == tea.KeyBackspace && m.input.Value() == "":
		focus, err := m.svc.Backspace(m.ctx, cur.ID)
		if m.setErr(err) {
			return false
		}
		m.refresh(focus)

	default:
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
		if m.input.Value() != before {
			m.edit(cur)
		}
	}
	return false
}

// paste splits clipboard text into rows. A single line is inserted at the
// cursor instead.
func (m *Model) paste(cur *entry.Entry) {
	text, err := m.clipboard()
	if m.setErr(err) || text == "" {
		return
	}
	if lines := entry.SplitLines(text); len(lines) > 1 {
		written, err := m.svc.Paste(m.ctx, cur.ID, text)
		if m.setErr(err) || len(written) == 0 {
			return
		}
		m.refresh(written[len(written)-1].ID)
		return
	}
	text = strings.TrimSpace(text)
	value := []rune(m.input.Value())
	pos := m.input.Position()
	m.input.SetValue(string(value[:pos]) + text + string(value[pos:]))
	m.input.SetCursor(pos + len([]rune(text)))
	m.edit(cur)
}

// edit pushes the input text to the focused entry. When a typed marker
// changed the kind, the marker is consumed from the input.
func (m *Model) edit(cur *entry.Entry) {
	e, err := m.svc.Edit(m.ctx, cur.ID, m.input.Value())
	if m.setErr(err) {
		return
	}
	if e.Content != m.input.Value() {
		m.input.SetValue(e.Content)
		m.input.CursorEnd()
	}
	m.refresh(e.ID)
}

func (m *Model) setErr(err error) bool {
	if err == nil {
		return false
	}
	m.err = err
	return true
}

func (m *Model) current() *entry.Entry {
	if m.focus < 0 || m.focus >= len(m.entries) {
		return nil
	}
	return m.entries[m.focus]
}

func (m *Model) focusedID() string {
	if e := m.current(); e != nil {
		return e.ID
	}
	return ""
}

// refresh reloads entries, settings and status, keeping focus on id when it
// still exists.
func (m *Model) refresh(id string) {
	entries, err := m.svc.Entries(m.ctx)
	if m.setErr(err) {
		return
	}
	m.entries = entries
	if s, err := m.svc.Settings(m.ctx); err == nil {
		m.settings = s
	}
	if status, err := m.svc.Status(m.ctx); err == nil {
		m.status = status
	}

	at := -1
	for i, e := range m.entries {
		if e.ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		at = min(m.focus, len(m.entries)-1)
	}
	m.focusOn(at)
}

// focusOn moves the input to row i, loading that row's text.
func (m *Model) focusOn(i int) {
	if len(m.entries) == 0 {
		m.focus = 0
		return
	}
	i = max(0, min(i, len(m.entries)-1))
	changed := i != m.focus
	m.focus = i
	if content := m.entries[i].Content; changed || content != m.input.Value() {
		m.input.SetValue(content)
		m.input.CursorEnd()
	}
}

var (
	faint     = lipgloss.NewStyle().Faint(true)
	linkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5252"))
	titleBar  = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorBar = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleBar.Render(m.settings.AppTitle))
	if m.status != "" {
		b.WriteString("  " + faint.Render(m.status))
	}
	b.WriteString("\n\n")

	start, end := m.window()
	for i := start; i < end; i++ {
		b.WriteString(m.row(i))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.help.View(keys))

	page := lipgloss.NewStyle()
	if bg := m.settings.BackgroundColor; settings.ValidColor(bg) {
		page = page.Background(lipgloss.Color(settings.RGB(bg)))
	}
	if m.width > 0 {
		page = page.Width(m.width)
	}
	return page.Render(b.String())
}

func (m *Model) row(i int) string {
	e := m.entries[i]
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(settings.RGB(e.Color(m.settings.DefaultHeaderColor))))
	if e.IsHeader() {
		style = style.Bold(true)
	}
	if e.IsTask() && e.Done {
		style = style.Strikethrough(true)
	}

	symbol := glyph.SymbolBlankRow
	if !e.Placeholder {
		symbol = e.Kind.Symbol(e.Done)
	}

	pointer := "  "
	text := style.Render(e.Content)
	if i == m.focus {
		pointer = cursorBar.Render("> ")
		text = m.input.View()
	}
	if e.HasLink() {
		title := e.DisplayTitle()
		if m.width > 0 {
			title = ansi.Truncate(title, max(12, m.width/3), "…")
		}
		text += " " + linkStyle.Render(glyph.SymbolLink+" "+title)
	}

	line := pointer + style.Render(symbol) + " " + text
	if m.settings.IsRtl && m.width > 0 {
		line = lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(line)
	}
	return line
}

// window returns the rows that fit on screen, keeping focus visible.
func (m *Model) window() (int, int) {
	rows := m.height - 6
	if m.height <= 0 || rows >= len(m.entries) {
		return 0, len(m.entries)
	}
	rows = max(rows, 1)
	start := max(0, m.focus-rows+1)
	return start, min(len(m.entries), start+rows)
}
