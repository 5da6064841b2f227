package prefs

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	return map[string]Backend{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "nested", "prefs.json")),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			logger, _ := newTestLogger()
			s := New(backend, logger)

			for _, v := range []string{"React", "", "redux toolkit", `quo"ted\path`} {
				s.Set(LastSearchKey, v)
				got, ok := s.Get(LastSearchKey)
				require.True(t, ok, "value %q not found after Set", v)
				assert.Equal(t, v, got)
			}
		})
	}
}

func TestGet_Miss(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(backend, nil)

			_, ok := s.Get(LastSearchKey)
			assert.False(t, ok)
			assert.Equal(t, "React", s.GetOr(LastSearchKey, "React"))
		})
	}
}

func TestGetOr_StoredEmptyStringWins(t *testing.T) {
	s := New(NewMemory(), nil)
	s.Set(LastSearchKey, "")
	assert.Equal(t, "", s.GetOr(LastSearchKey, "React"))
}

func TestSet_FailureIsLoggedNotReturned(t *testing.T) {
	backend := NewMemory()
	backend.SetErr = errors.New("disk full")
	logger, buf := newTestLogger()
	s := New(backend, logger)

	s.Set(LastSearchKey, "redux")

	assert.Contains(t, buf.String(), "preference write failed")
	assert.Contains(t, buf.String(), "disk full")
	backend.SetErr = nil
	_, ok := s.Get(LastSearchKey)
	assert.False(t, ok)
}

func TestGet_FailureFallsBackToDefault(t *testing.T) {
	backend := NewMemory()
	backend.GetErr = errors.New("locked")
	logger, buf := newTestLogger()
	s := New(backend, logger)

	assert.Equal(t, "React", s.GetOr(LastSearchKey, "React"))
	assert.Contains(t, buf.String(), "preference read failed")
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	require.NoError(t, NewFile(path).Set(LastSearchKey, "golang"))

	got, ok, err := NewFile(path).Get(LastSearchKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "golang", got)
}

func TestFile_KeepsOtherKeys(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, f.Set("theme", "dark"))
	require.NoError(t, f.Set(LastSearchKey, "rust"))

	got, ok, err := f.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", got)
}

func TestFile_ReadsHandEditedJWCC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	content := `{
	// edited by hand
	"lastSearch": "zig",
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, ok, err := NewFile(path).Get(LastSearchKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "zig", got)
}

func TestFile_EmptyFileIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, ok, err := NewFile(path).Get(LastSearchKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f := NewFile(path)
	_, _, err := f.Get(LastSearchKey)
	assert.Error(t, err)
	assert.Error(t, f.Set(LastSearchKey, "x"))

	// Best-effort wrapper degrades to the default.
	logger, _ := newTestLogger()
	assert.Equal(t, "React", New(f, logger).GetOr(LastSearchKey, "React"))
}

func TestFile_WrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lastSearch": 3}`), 0o644))

	_, _, err := NewFile(path).Get(LastSearchKey)
	assert.Error(t, err)
}

func TestFile_NullDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o644))

	f := NewFile(path)
	_, ok, err := f.Get(LastSearchKey)
	require.NoError(t, err)
	assert.False(t, ok)

	s := New(f, nil)
	require.NotPanics(t, func() { s.Set(LastSearchKey, "redux") })
	assert.Equal(t, "redux", s.GetOr(LastSearchKey, "React"))
}
