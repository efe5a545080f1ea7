package crontab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	t.Parallel()
	text := "# backups\n" +
		"\n" +
		"0 3 * * *\t/usr/local/bin/backup --full  > /tmp/b.log\n" +
		"   # indented comment\n" +
		"*/5 * * * * echo   \"spaced   args\"\r\n" +
		"  30 2 1 1 0   trailing\t\n"

	entries, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 3, entries[0].Line)
	assert.Equal(t, "0 3 * * *", entries[0].Spec)
	assert.Equal(t, "/usr/local/bin/backup --full  > /tmp/b.log", entries[0].Command)

	assert.Equal(t, 5, entries[1].Line)
	assert.Equal(t, `echo   "spaced   args"`, entries[1].Command)

	assert.Equal(t, "trailing", entries[2].Command)
	assert.Equal(t, []string{"30", "2", "1", "1", "0"}, entries[2].SpecFields())
}

func TestParseEmptyFile(t *testing.T) {
	t.Parallel()
	entries, err := Parse("# nothing here\n\n")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestParseRejectsWholeFile(t *testing.T) {
	t.Parallel()
	text := "0 3 * * * ok-one\n" +
		"61 * * * * bad-minute\n" +
		"0 4 * * * ok-two\n"

	entries, err := Parse(text)
	require.Error(t, err)
	assert.Nil(t, entries)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "minute", pe.Field)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseLineMissingFields(t *testing.T) {
	t.Parallel()
	_, err := ParseLine(4, "0 3 * *")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 4, pe.Line)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestParseLineEmptyCommand(t *testing.T) {
	t.Parallel()
	e, err := ParseLine(1, "0 3 * * *")
	require.NoError(t, err)
	assert.Equal(t, "", e.Command)
}
