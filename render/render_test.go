package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contribgrid/pkg/contrib"
)

func TestHeaderAndRowsHaveIdenticalWidth(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	window := contrib.Window(now)
	display := contrib.DisplayDates(window)
	table := New(16)

	header := table.Header(display)
	separator := table.Separator(len(window))
	short := table.Row("bob", contrib.DateSet{}, window)
	long := table.Row("a-very-long-username-indeed-30", contrib.DateSet{}, window)

	assert.Equal(t, len(header), len(separator))
	assert.Equal(t, len(header), len(short))
	assert.Equal(t, len(header), len(long))

	// Long usernames are truncated to the configured column width.
	assert.True(t, strings.HasPrefix(long, "a-very-long-user"))
	assert.False(t, strings.Contains(long, "indeed"))
}

func TestRowMarkers(t *testing.T) {
	window := []string{"2024-01-05", "2024-01-06"}
	active := contrib.ActiveDates([]contrib.Day{
		{Date: "2024-01-05", Count: 3},
		{Date: "2024-01-06", Count: 0},
	})
	table := New(16)

	row := table.Row("alice", active, window)

	cells := row[16:]
	require.Len(t, cells, 2*11)
	assert.Equal(t, "X", strings.TrimSpace(cells[:11]))
	assert.Equal(t, "-", strings.TrimSpace(cells[11:]))
}

func TestHeaderStartsWithUserColumn(t *testing.T) {
	table := New(16)
	header := table.Header([]string{"01/05/2024"})

	assert.True(t, strings.HasPrefix(header, "User            "))
	assert.Contains(t, header, "01/05/2024")
}

func TestRowAllAbsent(t *testing.T) {
	window := []string{"2024-01-05", "2024-01-06", "2024-01-07"}
	table := New(16)

	failed := table.Row("ghost", contrib.DateSet{}, window)
	zero := table.Row("ghost", contrib.ActiveDates(nil), window)

	// A failed fetch and zero contributions render identically.
	assert.Equal(t, failed, zero)
	assert.NotContains(t, failed, "X")
}

func TestNewFallsBackToDefaultWidth(t *testing.T) {
	table := New(0)
	row := table.Row("bob", contrib.DateSet{}, nil)
	assert.Len(t, row, DefaultNameWidth)
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "shorter than width", in: "abc", width: 5, want: "abc  "},
		{name: "exact width", in: "abcde", width: 5, want: "abcde"},
		{name: "truncated", in: "abcdefgh", width: 5, want: "abcde"},
		{name: "empty", in: "", width: 3, want: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pad(tt.in, tt.width))
		})
	}
}
