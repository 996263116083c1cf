package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/ui"
)

// card adapts a TrackedItem to bubbles/list.Item
type card struct {
	item model.TrackedItem
}

func (c card) Title() string       { return fmt.Sprintf("%s %s", statusIcon(c.item.Status), c.item.Title) }
func (c card) Description() string { return c.item.Description }
func (c card) FilterValue() string { return c.item.Title }

// cardDelegate renders a card on three lines: status + title, description,
// notes preview.
type cardDelegate struct{}

func (d cardDelegate) Height() int                               { return 3 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	c, ok := li.(card)
	if !ok {
		return
	}
	it := c.item
	st := statusStyle(it.Status)

	title := it.Title
	if it.Status == model.Completed {
		title = doneStyle.Render(title)
	}
	line1 := fmt.Sprintf("%s %s %s  %s",
		st.Render(statusIcon(it.Status)),
		title,
		mutedStyle.Render(fmt.Sprintf("#%d", it.ID)),
		st.Render(it.Status.Label()))

	desc := it.Description
	if desc == "" {
		desc = "No description"
	}
	line2 := "    " + mutedStyle.Render(desc)

	line3 := "    " + mutedStyle.Render("no notes, press e to add")
	if it.HasNotes() {
		preview := strings.ReplaceAll(ui.Truncate(it.Notes, ui.NotesPreviewLen), "\n", " ")
		line3 = "    " + accentStyle.Render("notes:") + " " + preview
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s\n%s\n%s", prefix, line1, line2, line3)
}
