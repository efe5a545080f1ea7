package executor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShell(t *testing.T) {
	argv := DefaultShell()
	require.Len(t, argv, 2)
	if runtime.GOOS == "windows" {
		assert.Equal(t, []string{"cmd", "/c"}, argv)
	} else {
		assert.Equal(t, []string{"sh", "-c"}, argv)
	}
}

func TestLaunchRunsThroughShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	dir := t.TempDir()
	sh, err := New(nil, WithDir(dir))
	require.NoError(t, err)

	require.NoError(t, sh.Launch("echo ran > out.txt && sleep 1"))

	// Launch returns before the command finishes.
	require.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(dir, "out.txt"))
		return err == nil && string(b) == "ran\n"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestLaunchReportsMissingShell(t *testing.T) {
	sh, err := New([]string{filepath.Join(t.TempDir(), "no-such-shell"), "-c"})
	require.NoError(t, err)

	err = sh.Launch("true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `launch "true"`)
}

func TestNewRejectsEmptyProgram(t *testing.T) {
	_, err := New([]string{" "})
	assert.Error(t, err)
}
