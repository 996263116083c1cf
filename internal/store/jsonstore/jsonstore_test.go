package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/techtrack/internal/model"
	"github.com/idilsaglam/techtrack/internal/store"
)

func TestGetSetRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Get("k")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set("k", []byte(`[1,2]`)))
	b, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(b))
	assert.FileExists(t, filepath.Join(dir, "k.json"))

	require.NoError(t, s.Remove("k"))
	assert.ErrorIs(t, s.Remove("k"), store.ErrNotFound)
}

func TestNewDefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, wd, s.Dir)
}

func TestStoreOverJSONFiles(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	st := store.New(s)
	st.Load()
	_, _, err = st.CycleStatus(4)
	require.NoError(t, err)

	reopened := store.New(s)
	reopened.Load()
	it, ok := reopened.Get(4)
	require.True(t, ok)
	assert.Equal(t, model.InProgress, it.Status)
}

func TestInvalidFileFallsBack(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(store.DefaultKey), []byte("{{{"), 0o644))

	st := store.New(s)
	st.Load()

	assert.Equal(t, model.Defaults(), st.Items())
}
