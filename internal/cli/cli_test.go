package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
	"github.com/idilsaglam/techtrack/internal/store/jsonstore"
	"github.com/idilsaglam/techtrack/internal/view"
)

type result struct {
	code int
	out  string
	err  string
}

// runIn executes the CLI against dir with colors off and no user config.
func runIn(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	app := &App{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errb,
		Now: func() time.Time { return time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC) },
	}
	full := append([]string{
		"--config", filepath.Join(dir, "no-config.yaml"),
		"--dir", dir,
		"--no-color",
	}, args...)
	code := run(full, app)
	return result{code: code, out: out.String(), err: errb.String()}
}

func readItems(t *testing.T, dir string) []model.TrackedItem {
	t.Helper()
	js, err := jsonstore.New(dir)
	require.NoError(t, err)
	items, err := store.Read(js, store.DefaultKey)
	require.NoError(t, err)
	return items
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "ls")

	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "React + JSX")
	assert.Contains(t, r.out, "Redux / Zustand")
	assert.Contains(t, r.out, "17%")
	assert.FileExists(t, filepath.Join(dir, store.DefaultKey+".json"))
}

func TestList_FilterSearchWhereJSON(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "ls", "--filter", "completed", "--search", "react", "--json")
	require.Equal(t, 0, r.code, r.err)

	var doc struct {
		Technologies []model.TrackedItem `json:"technologies"`
		Stats        view.Stats          `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &doc))
	require.Len(t, doc.Technologies, 1)
	assert.Equal(t, 1, doc.Technologies[0].ID)
	assert.Equal(t, 6, doc.Stats.Total)

	r = runIn(t, dir, "", "ls", "--where", `category == "state-management"`, "--json")
	require.Equal(t, 0, r.code, r.err)
	require.NoError(t, json.Unmarshal([]byte(r.out), &doc))
	require.Len(t, doc.Technologies, 1)
	assert.Equal(t, 6, doc.Technologies[0].ID)
}

func TestList_UsageErrors(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, 2, runIn(t, dir, "", "ls", "--filter", "done").code)
	assert.Equal(t, 2, runIn(t, dir, "", "ls", "--where", "title +").code)
	assert.Equal(t, 2, runIn(t, dir, "", "ls", "--bogus").code)
	assert.Equal(t, 2, runIn(t, dir, "", "frobnicate").code)
}

func TestList_Group(t *testing.T) {
	r := runIn(t, t.TempDir(), "", "ls", "--group")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Not started (3)")
}

func TestCycle(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "cycle", "4")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "React Router is now in progress")
	assert.Equal(t, model.InProgress, readItems(t, dir)[3].Status)

	r = runIn(t, dir, "", "cycle", "99")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "no technology with id 99")

	assert.Equal(t, 2, runIn(t, dir, "", "cycle", "abc").code)
	assert.Equal(t, 2, runIn(t, dir, "", "cycle").code)
}

func TestNotes(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "notes", "5", "providers", "and", "consumers")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, "providers and consumers", readItems(t, dir)[4].Notes)

	r = runIn(t, dir, "", "notes", "5")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "notes cleared")
	assert.Equal(t, "", readItems(t, dir)[4].Notes)

	r = runIn(t, dir, "", "notes", "5", strings.Repeat("x", model.NotesLimit+1))
	assert.Equal(t, 2, r.code)
}

func TestShow(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "show", "2")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "State (useState)")
	assert.Contains(t, r.out, "category: frontend")

	assert.Equal(t, 1, runIn(t, dir, "", "show", "42").code)
}

func TestCompleteAllResetAllRandom(t *testing.T) {
	dir := t.TempDir()

	require.Equal(t, 0, runIn(t, dir, "", "complete-all").code)
	r := runIn(t, dir, "", "random")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "already started or completed")

	require.Equal(t, 0, runIn(t, dir, "", "reset-all").code)
	r = runIn(t, dir, "", "random")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "Next technology to learn")
	for _, it := range readItems(t, dir) {
		assert.Equal(t, model.NotStarted, it.Status, "plain random must not change anything")
	}

	r = runIn(t, dir, "", "random", "--start")
	require.Equal(t, 0, r.code)
	assert.Equal(t, 1, view.Compute(readItems(t, dir)).InProgress)
}

func TestStatsJSON(t *testing.T) {
	r := runIn(t, t.TempDir(), "", "stats", "--json")
	require.Equal(t, 0, r.code, r.err)

	var s view.Stats
	require.NoError(t, json.Unmarshal([]byte(r.out), &s))
	assert.Equal(t, 17, s.Progress)
	assert.Equal(t, 4, s.NotesCount)
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	r := runIn(t, dir, "", "export", "-o", dir)
	require.Equal(t, 0, r.code, r.err)

	b, err := os.ReadFile(filepath.Join(dir, "tech-tracker-2026-10-17.json"))
	require.NoError(t, err)
	var snap store.Snapshot
	require.NoError(t, json.Unmarshal(b, &snap))
	assert.Equal(t, "2026-10-17T08:00:00.000Z", snap.ExportedAt)
	assert.Len(t, snap.Technologies, 6)

	r = runIn(t, dir, "", "export", "--stdout")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, `"technologies"`)

	r = runIn(t, dir, "", "export", "-o", filepath.Join(dir, "missing", "x.json"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.err, "export failed")
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, 0, runIn(t, dir, "", "complete-all").code)

	r := runIn(t, dir, "n\n", "clear")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "cancelled")
	assert.Equal(t, 100, view.Compute(readItems(t, dir)).Progress)

	r = runIn(t, dir, "y\n", "clear")
	require.Equal(t, 0, r.code, r.err)
	assert.Equal(t, model.Defaults(), readItems(t, dir))

	require.Equal(t, 0, runIn(t, dir, "", "complete-all").code)
	require.Equal(t, 0, runIn(t, dir, "", "clear", "--yes").code)
	assert.Equal(t, model.Defaults(), readItems(t, dir))
}

func TestInvalidStorageFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.DefaultKey+".json"), []byte("not json"), 0o644))

	r := runIn(t, dir, "", "stats", "--json")

	require.Equal(t, 0, r.code, r.err)
	var s view.Stats
	require.NoError(t, json.Unmarshal([]byte(r.out), &s))
	assert.Equal(t, 6, s.Total)
}

func TestSQLiteBackend(t *testing.T) {
	dir := t.TempDir()

	require.Equal(t, 0, runIn(t, dir, "", "--backend", "sqlite", "cycle", "6").code)
	r := runIn(t, dir, "", "--backend", "sqlite", "ls", "--filter", "in-progress", "--json")
	require.Equal(t, 0, r.code, r.err)
	assert.Contains(t, r.out, "Redux / Zustand")
	assert.FileExists(t, filepath.Join(dir, "techtrack.sqlite"))
	assert.NoFileExists(t, filepath.Join(dir, store.DefaultKey+".json"))

	assert.Equal(t, 2, runIn(t, dir, "", "--backend", "redis", "ls").code)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("storage:\n  dir: "+data+"\n  key: mine\n"), 0o644))

	var out, errb bytes.Buffer
	code := run([]string{"--config", cfgPath, "--no-color", "cycle", "1"},
		&App{In: strings.NewReader(""), Out: &out, Err: &errb, Now: time.Now})

	require.Equal(t, 0, code, errb.String())
	assert.FileExists(t, filepath.Join(data, "mine.json"))
}

func TestWatch_StopsWhenContextIsDone(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, 0, runIn(t, dir, "", "cycle", "4").code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := run([]string{
		"--config", filepath.Join(dir, "no-config.yaml"),
		"--dir", dir,
		"--no-color",
		"watch",
	}, &App{In: strings.NewReader(""), Out: &out, Err: &errb, Now: time.Now, Context: ctx})

	require.Equal(t, 0, code, errb.String())
	assert.Contains(t, out.String(), "Items with notes:")
	assert.Contains(t, out.String(), "watching "+filepath.Join(dir, store.DefaultKey+".json"))
}

func TestWatch_BeforeAnythingIsSaved(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := run([]string{"--config", filepath.Join(dir, "no-config.yaml"), "--dir", dir, "--no-color", "watch"},
		&App{In: strings.NewReader(""), Out: &out, Err: &errb, Now: time.Now, Context: ctx})

	require.Equal(t, 0, code, errb.String())
	assert.Contains(t, out.String(), "no saved data yet")
	assert.NoFileExists(t, filepath.Join(dir, store.DefaultKey+".json"))
}
