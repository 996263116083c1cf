package ui

import (
	"fmt"
	"strings"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/view"
)

// NotesPreviewLen is how much of the notes a card shows.
const NotesPreviewLen = 100

// Header is the counts line shown above every listing.
func Header(s view.Stats) string {
	t := Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s %d",
		C(t.Title, "Tech tracker"),
		C(t.Success, t.SymCompleted), s.Completed,
		C(t.Progress, t.SymInProgress), s.InProgress,
		C(t.Pending, t.SymNotStarted), s.NotStarted,
		C(t.Accent, "Total"), s.Total,
	)
}

// CardLines renders one item as a card: status line, description and a
// notes preview.
func CardLines(it model.TrackedItem) []string {
	t := Current()
	color := t.StatusColor(it.Status)
	title := it.Title
	if it.Status == model.Completed {
		title = C(t.Muted, title)
	}
	lines := []string{
		fmt.Sprintf("%s %s %s  %s",
			C(color, t.StatusSymbol(it.Status)),
			title,
			C(t.Muted, fmt.Sprintf("#%d", it.ID)),
			C(color, it.Status.Label())),
	}
	desc := it.Description
	if desc == "" {
		desc = "No description"
	}
	lines = append(lines, "    "+C(t.Muted, desc))
	if it.HasNotes() {
		preview := strings.ReplaceAll(Truncate(it.Notes, NotesPreviewLen), "\n", " ")
		lines = append(lines, fmt.Sprintf("    %s %s", C(t.Accent, "notes:"), preview))
	}
	return lines
}

// ListLines renders the visible items, one card after another.
func ListLines(items []model.TrackedItem) []string {
	if len(items) == 0 {
		return []string{C(Current().Muted, "nothing found, try another filter or search")}
	}
	var out []string
	for i, it := range items {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, CardLines(it)...)
	}
	return out
}

// GroupLines renders items grouped by status in cycle order.
func GroupLines(items []model.TrackedItem) []string {
	t := Current()
	var lines []string
	for i, st := range model.Statuses {
		if i > 0 {
			lines = append(lines, "")
		}
		group := view.ByStatus(items, view.Filter(st))
		lines = append(lines, C(t.Accent, fmt.Sprintf("%s (%d)", st.Label(), len(group))))
		if len(group) == 0 {
			lines = append(lines, C(t.Muted, "(none)"))
			continue
		}
		for _, it := range group {
			lines = append(lines, CardLines(it)[0])
		}
	}
	return lines
}

// StatsLines renders the statistics block.
func StatsLines(s view.Stats) []string {
	t := Current()
	lines := []string{
		Header(s),
		C(t.Muted, ProgressBar(s.Progress, 28)) + fmt.Sprintf("  %d of %d", s.Completed, s.Total),
		"",
		fmt.Sprintf("Most common status: %s", C(t.StatusColor(s.MostCommon()), s.MostCommon().Label())),
		fmt.Sprintf("Left to learn:      %d", s.Remaining()),
		fmt.Sprintf("Available to start: %d", s.Available()),
		fmt.Sprintf("Items with notes:   %d", s.NotesCount),
	}
	if s.AllCompleted() {
		lines = append(lines, "", C(t.Success, "Everything learned, congratulations!"))
	}
	return lines
}
