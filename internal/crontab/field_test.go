package crontab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		text       string
		limit      int
		oneIndexed bool
		want       []int
	}{
		{name: "wildcard step minutes", text: "*/15", limit: 60, want: []int{0, 15, 30, 45}},
		{name: "range step weekdays", text: "1-5/2", limit: 7, want: []int{1, 3, 5}},
		{name: "single", text: "7", limit: 24, want: []int{7}},
		{name: "list", text: "1,3,5", limit: 60, want: []int{1, 3, 5}},
		{name: "mixed list", text: "0-2,10,*/20", limit: 60, want: []int{0, 1, 2, 10, 20, 40}},
		{name: "wildcard one-indexed", text: "*", limit: 13, oneIndexed: true, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "wildcard step one-indexed", text: "*/10", limit: 32, oneIndexed: true, want: []int{1, 11, 21, 31}},
		{name: "last day", text: "31", limit: 32, oneIndexed: true, want: []int{31}},
		{name: "degenerate range", text: "4-4", limit: 7, want: []int{4}},
		{name: "step larger than range", text: "2-5/10", limit: 60, want: []int{2}},
		{name: "overlapping items", text: "1-3,2-4", limit: 7, want: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, err := ParseField(tt.text, tt.limit, tt.oneIndexed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Values())
			assert.Equal(t, tt.limit, f.Limit())
		})
	}
}

func TestParseFieldInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		text       string
		limit      int
		oneIndexed bool
		want       error
	}{
		{name: "day 32", text: "32", limit: 32, oneIndexed: true, want: ErrOutOfRange},
		{name: "zero day", text: "0", limit: 32, oneIndexed: true, want: ErrZeroValue},
		{name: "zero in range", text: "0-5", limit: 13, oneIndexed: true, want: ErrZeroValue},
		{name: "range end too big", text: "1-60", limit: 60, want: ErrOutOfRange},
		{name: "huge number", text: "99999", limit: 60, want: ErrOutOfRange},
		{name: "empty", text: "", limit: 60, want: ErrSyntax},
		{name: "letters", text: "mon", limit: 7, want: ErrSyntax},
		{name: "trailing comma", text: "1,", limit: 60, want: ErrSyntax},
		{name: "empty item", text: "1,,2", limit: 60, want: ErrSyntax},
		{name: "dangling dash", text: "1-", limit: 60, want: ErrSyntax},
		{name: "step on single value", text: "5/2", limit: 60, want: ErrStep},
		{name: "zero step", text: "*/0", limit: 60, want: ErrStep},
		{name: "missing step", text: "*/", limit: 60, want: ErrSyntax},
		{name: "reversed range", text: "5-1", limit: 7, want: ErrSyntax},
		{name: "question mark", text: "?", limit: 32, oneIndexed: true, want: ErrSyntax},
		{name: "trailing garbage", text: "*x", limit: 60, want: ErrSyntax},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseField(tt.text, tt.limit, tt.oneIndexed)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseFieldDeterministic(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"*/7", "1-30/4,45", "0,59"} {
		a, err := ParseField(text, 60, false)
		require.NoError(t, err)
		b, err := ParseField(text, 60, false)
		require.NoError(t, err)
		assert.Equal(t, a.Values(), b.Values(), text)
	}
}
