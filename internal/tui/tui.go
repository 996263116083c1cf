// Package tui is the interactive tracker: a list of cards with status
// cycling, inline notes editing, live search and status filters.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
	"github.com/idilsaglam/techtrack/internal/view"
)

type mode int

const (
	modeBrowse mode = iota
	modeNotes
	modeSearch
	modeConfirmClear
)

var (
	cycleKey   = key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "next status"))
	notesKey   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "notes"))
	searchKey  = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	filterKey  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter"))
	randomKey  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random"))
	allDoneKey = key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "complete all"))
	resetKey   = key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all"))
	exportKey  = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export"))
	clearFKey  = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters"))
	wipeKey    = key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "clear storage"))
)

// Options configure the TUI.
type Options struct {
	ExportDir string // where x writes export files; empty = working directory
	Logger    *zap.Logger
}

// Model is the Bubble Tea model.
type Model struct {
	store *store.Store
	opt   Options

	list   list.Model
	input  textinput.Model // shared by notes editing and search
	mode   mode
	editID int

	filter view.Filter
	query  string

	message string
	msgErr  bool
}

// New builds the model over an already loaded store.
func New(st *store.Store, opt Options) Model {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}

	l := list.New(nil, cardDelegate{}, 80, 24)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("technology", "technologies")

	extra := []key.Binding{cycleKey, notesKey, searchKey, filterKey, randomKey, exportKey}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return append(extra, allDoneKey, resetKey, clearFKey, wipeKey)
	}

	ti := textinput.New()
	ti.Prompt = "> "

	m := Model{
		store:  st,
		opt:    opt,
		list:   l,
		input:  ti,
		filter: view.FilterAll,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen.
func Run(st *store.Store, opt Options) error {
	p := tea.NewProgram(New(st, opt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// refresh re-derives the visible cards and header from the store.
func (m *Model) refresh() {
	all := m.store.Items()
	visible := view.Apply(all, m.filter, m.query)

	items := make([]list.Item, 0, len(visible))
	for _, it := range visible {
		items = append(items, card{item: it})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}

	s := view.Compute(all)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s %d%%",
		titleStyle.Render("Tech tracker"),
		successStyle.Render("✓"), s.Completed,
		progressStyle.Render("↻"), s.InProgress,
		pendingStyle.Render("○"), s.NotStarted,
		accentStyle.Render("Progress"), s.Progress,
	)
}

func (m *Model) say(msg string) { m.message, m.msgErr = msg, false }
func (m *Model) fail(err error) {
	m.message, m.msgErr = err.Error(), true
	m.opt.Logger.Error("tui action failed", zap.Error(err))
}

func (m Model) selected() (model.TrackedItem, bool) {
	c, ok := m.list.SelectedItem().(card)
	if !ok {
		return model.TrackedItem{}, false
	}
	return c.item, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		h, v := frameStyle.GetFrameSize()
		m.list.SetSize(ws.Width-h, ws.Height-v-3)
		return m, nil
	}

	switch m.mode {
	case modeNotes:
		return m.updateNotes(msg)
	case modeSearch:
		return m.updateSearch(msg)
	case modeConfirmClear:
		return m.updateConfirmClear(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case " ", "enter":
		if it, ok := m.selected(); ok {
			next, _, err := m.store.CycleStatus(it.ID)
			if err != nil {
				m.fail(err)
			} else {
				m.say(fmt.Sprintf("%s: %s", next.Title, next.Status.Label()))
			}
			m.refresh()
		}
		return m, nil

	case "e":
		if it, ok := m.selected(); ok {
			m.mode = modeNotes
			m.editID = it.ID
			m.input.CharLimit = model.NotesLimit
			m.input.Placeholder = "Key points, links, ideas..."
			m.input.SetValue(it.Notes)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
		return m, nil

	case "/":
		m.mode = modeSearch
		m.input.CharLimit = 0
		m.input.Placeholder = "Search title, description or notes..."
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "tab":
		m.filter = m.filter.Next()
		m.list.Select(0)
		m.refresh()
		m.say("Filter: " + m.filter.Label())
		return m, nil

	case "c":
		m.filter, m.query = view.FilterAll, ""
		m.refresh()
		m.say("Filters cleared")
		return m, nil

	case "r":
		it, ok, err := m.store.StartRandom()
		switch {
		case err != nil:
			m.fail(err)
		case !ok:
			m.say("Every technology is already started or completed!")
		default:
			m.say("Next technology to learn: " + it.Title)
		}
		m.refresh()
		return m, nil

	case "A":
		if err := m.store.MarkAllCompleted(); err != nil {
			m.fail(err)
		} else {
			m.say("All technologies marked completed")
		}
		m.refresh()
		return m, nil

	case "R":
		if err := m.store.ResetAll(); err != nil {
			m.fail(err)
		} else {
			m.say("All statuses reset")
		}
		m.refresh()
		return m, nil

	case "x":
		path, err := m.export()
		if err != nil {
			m.fail(fmt.Errorf("export failed: %w", err))
		} else {
			m.say("Exported to " + path)
		}
		return m, nil

	case "D":
		m.mode = modeConfirmClear
		m.say("Erase all saved data and restore the defaults? (y/n)")
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateNotes(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			ok, err := m.store.SetNotes(m.editID, m.input.Value())
			switch {
			case err != nil:
				m.fail(err)
			case !ok:
				m.say(fmt.Sprintf("Item #%d no longer exists", m.editID))
			default:
				m.say("Notes saved")
			}
			m.leaveInput()
			m.refresh()
			return m, nil
		case "esc":
			m.leaveInput()
			m.say("Edit cancelled")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.leaveInput()
			return m, nil
		case "esc":
			m.query = ""
			m.leaveInput()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.query {
		m.query = m.input.Value()
		m.list.Select(0)
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.mode = modeBrowse
	if strings.EqualFold(km.String(), "y") {
		if err := m.store.Clear(); err != nil {
			m.fail(err)
		} else {
			m.filter, m.query = view.FilterAll, ""
			m.say("Data cleared")
		}
		m.refresh()
		return m, nil
	}
	m.say("Kept your data")
	return m, nil
}

func (m *Model) leaveInput() {
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) export() (string, error) {
	snap := m.store.ExportSnapshot()
	path := filepath.Join(m.opt.ExportDir, snap.FileName())
	if err := snap.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())

	if m.query != "" || m.filter != view.FilterAll {
		shown := len(m.list.Items())
		fmt.Fprintf(&b, "\n%s", mutedStyle.Render(fmt.Sprintf("filter: %s  search: %q  found %d of %d",
			m.filter.Label(), m.query, shown, len(m.store.Items()))))
		if shown == 0 {
			b.WriteString("\n" + pendingStyle.Render("Nothing found. Change the search or press c to reset filters."))
		}
	}

	switch m.mode {
	case modeNotes:
		title := fmt.Sprintf("Notes for #%d  %s", m.editID,
			mutedStyle.Render(fmt.Sprintf("%d/%d", len([]rune(m.input.Value())), model.NotesLimit)))
		b.WriteString("\n" + frameStyle.Render(title+"\n"+m.input.View()))
	case modeSearch:
		b.WriteString("\n" + frameStyle.Render("Search\n"+m.input.View()))
	}

	if m.message != "" {
		st := accentStyle
		if m.msgErr {
			st = errorStyle
		}
		b.WriteString("\n" + st.Render(m.message))
	}
	return frameStyle.Render(b.String())
}
