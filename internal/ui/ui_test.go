package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/view"
)

func plain(t *testing.T) {
	t.Helper()
	SetColorForcing(false, true)
	SetTheme("classic")
	t.Cleanup(func() { SetColorForcing(false, false) })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░   0%", ProgressBar(0, 10))
	assert.Equal(t, "█░░░░░░░░░  17%", ProgressBar(17, 10))
	assert.Equal(t, "██████████ 100%", ProgressBar(140, 10))
}

func TestPanelAlignsBorders(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	Panel(&buf, []string{"a", "✓ wide line"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, visibleWidth(lines[0]), visibleWidth(lines[1]))
	assert.Equal(t, visibleWidth(lines[0]), visibleWidth(lines[2]))
}

func TestCardLines(t *testing.T) {
	plain(t)
	it := model.TrackedItem{ID: 6, Title: "Redux / Zustand", Status: model.NotStarted, Notes: strings.Repeat("n", 150)}

	lines := CardLines(it)

	require.Len(t, lines, 3)
	assert.Equal(t, "○ Redux / Zustand #6  Not started", lines[0])
	assert.Contains(t, lines[1], "No description")
	assert.True(t, strings.HasSuffix(lines[2], strings.Repeat("n", NotesPreviewLen)+"..."))
}

func TestGroupLines(t *testing.T) {
	plain(t)
	out := strings.Join(GroupLines(model.Defaults()), "\n")

	assert.Contains(t, out, "Not started (3)")
	assert.Contains(t, out, "In progress (2)")
	assert.Contains(t, out, "Completed (1)")
}

func TestStatsLines(t *testing.T) {
	plain(t)
	out := strings.Join(StatsLines(view.Compute(model.Defaults())), "\n")

	assert.Contains(t, out, "17%")
	assert.Contains(t, out, "1 of 6")
	assert.Contains(t, out, "Most common status: Not started")
	assert.NotContains(t, out, "congratulations")
}

func TestMessages(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	OK(&buf, "saved")
	Info(&buf, "nothing to pick")
	Fail(&buf, "boom")
	assert.Equal(t, "✔ saved\nℹ nothing to pick\n✖ boom\n", buf.String())
}

func TestMarkdown(t *testing.T) {
	plain(t)
	assert.Equal(t, "", Markdown("   ", 40))
	assert.Contains(t, Markdown("**bold** notes", 40), "bold")
}
