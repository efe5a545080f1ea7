package crontab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolverCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "crontab")

	got, err := PathResolver{Override: path}.Path()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestPathResolverKeepsContent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "crontab")
	require.NoError(t, os.WriteFile(path, []byte("0 0 * * * x\n"), 0o644))

	_, err := PathResolver{Override: path}.Path()
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0 0 * * * x\n", string(b))
}

func TestDefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOCALAPPDATA", home)

	got, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "crontab", filepath.Base(got))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(got)))
}

func TestFileSourceLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "crontab")
	require.NoError(t, os.WriteFile(path, []byte("*/5 * * * * a\n*/5 * * * * b\n"), 0o644))

	entries, err := FileSource{Resolver: PathResolver{Override: path}}.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[1].Command)

	require.NoError(t, os.WriteFile(path, []byte("*/5 * * * * a\nbroken line\n"), 0o644))
	entries, err = FileSource{Resolver: PathResolver{Override: path}}.Load()
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), path)
}
