package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
	"github.com/idilsaglam/techtrack/internal/store/jsonstore"
	"github.com/idilsaglam/techtrack/internal/view"
)

func newTestModel(t *testing.T, opts ...store.Option) (Model, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	js, err := jsonstore.New(dir)
	require.NoError(t, err)
	fixed := func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	st := store.New(js, append([]store.Option{store.WithClock(fixed)}, opts...)...)
	st.Load()
	m := New(st, Options{ExportDir: dir})
	return m, st, dir
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func visibleIDs(m Model) []int {
	var ids []int
	for _, li := range m.list.Items() {
		ids = append(ids, li.(card).item.ID)
	}
	return ids
}

func TestCycleSelected(t *testing.T) {
	m, st, _ := newTestModel(t)

	m = press(t, m, "space")

	it, _ := st.Get(1)
	assert.Equal(t, model.NotStarted, it.Status, "completed wraps to not-started")
	assert.Contains(t, m.message, "React + JSX")
}

func TestEditNotes(t *testing.T) {
	m, st, _ := newTestModel(t)

	m = press(t, m, "e")
	require.Equal(t, modeNotes, m.mode)
	m.input.SetValue("")
	m = press(t, m, "hooks", "enter")

	it, _ := st.Get(1)
	assert.Equal(t, "hooks", it.Notes)
	assert.Equal(t, modeBrowse, m.mode)

	m = press(t, m, "e", "esc")
	it, _ = st.Get(1)
	assert.Equal(t, "hooks", it.Notes, "esc must not save")
}

func TestSearchAndFilter(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, "/", "react")
	assert.Equal(t, []int{1, 4}, visibleIDs(m))
	m = press(t, m, "enter")
	assert.Equal(t, "react", m.query)

	// all -> not-started -> in-progress -> completed
	m = press(t, m, "tab", "tab", "tab")
	assert.Equal(t, view.Filter(model.Completed), m.filter)
	assert.Equal(t, []int{1}, visibleIDs(m))

	m = press(t, m, "c")
	assert.Len(t, visibleIDs(m), 6)

	m = press(t, m, "/", "zzz")
	assert.Empty(t, visibleIDs(m))
	assert.Contains(t, m.View(), "Nothing found")
	m = press(t, m, "esc")
	assert.Len(t, visibleIDs(m), 6)
}

func TestRandomStartsAnItem(t *testing.T) {
	m, st, _ := newTestModel(t, store.WithRand(func(int) int { return 0 }))

	m = press(t, m, "r")

	it, _ := st.Get(4)
	assert.Equal(t, model.InProgress, it.Status)
	assert.Contains(t, m.message, "React Router")

	m = press(t, m, "A", "r")
	assert.Contains(t, m.message, "already started or completed")
}

func TestBulkActionsAndClear(t *testing.T) {
	m, st, _ := newTestModel(t)

	m = press(t, m, "A")
	assert.Equal(t, 100, view.Compute(st.Items()).Progress)

	m = press(t, m, "R")
	assert.Equal(t, 0, view.Compute(st.Items()).Progress)

	m = press(t, m, "D", "n")
	assert.Equal(t, 0, view.Compute(st.Items()).Progress)

	m = press(t, m, "D", "y")
	assert.Equal(t, model.Defaults(), st.Items())
	assert.Equal(t, "Data cleared", m.message)
}

func TestExport(t *testing.T) {
	m, _, dir := newTestModel(t)

	m = press(t, m, "x")

	path := filepath.Join(dir, "tech-tracker-2026-10-17.json")
	assert.Equal(t, "Exported to "+path, m.message)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"exportedAt": "2026-10-17T12:00:00.000Z"`))
}

func TestExport_FileNameFollowsExportedAt(t *testing.T) {
	late := func() time.Time { return time.Date(2026, 10, 18, 1, 30, 0, 0, time.FixedZone("CEST", 2*3600)) }
	m, _, dir := newTestModel(t, store.WithClock(late))

	m = press(t, m, "x")

	path := filepath.Join(dir, "tech-tracker-2026-10-17.json")
	require.Equal(t, "Exported to "+path, m.message)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"exportedAt": "2026-10-17T23:30:00.000Z"`)
}

func TestExportFailureIsShown(t *testing.T) {
	m, _, dir := newTestModel(t)
	m.opt.ExportDir = filepath.Join(dir, "missing", "dir")

	m = press(t, m, "x")

	assert.True(t, m.msgErr)
	assert.Contains(t, m.message, "export failed")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
