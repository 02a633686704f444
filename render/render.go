// Package render produces the fixed-width contribution grid.
package render

import (
	"strings"

	"contribgrid/pkg/contrib"
)

// DefaultNameWidth is the width of the username column.
const DefaultNameWidth = 16

// cellWidth fits an MM/DD/YYYY header plus one space of padding. Data cells
// use the same width so header and rows always align.
const cellWidth = 11

const (
	presentMarker = "X"
	absentMarker  = "-"
)

// Table renders header, separator, and data rows. Usernames are padded or
// truncated to a fixed column width so every emitted line has identical
// total width regardless of input.
type Table struct {
	nameWidth int
}

// New creates a table renderer. A non-positive nameWidth falls back to
// DefaultNameWidth.
func New(nameWidth int) *Table {
	if nameWidth <= 0 {
		nameWidth = DefaultNameWidth
	}
	return &Table{nameWidth: nameWidth}
}

// Header returns the title line: a "User" column followed by one cell per
// display date.
func (t *Table) Header(displayDates []string) string {
	var b strings.Builder
	b.WriteString(pad("User", t.nameWidth))
	for _, date := range displayDates {
		b.WriteString(pad(date, cellWidth))
	}
	return b.String()
}

// Separator returns a dashed line matching the width of a header or row
// with the given number of date columns.
func (t *Table) Separator(columns int) string {
	return strings.Repeat("-", t.nameWidth+columns*cellWidth)
}

// Row renders one user's line: for each window date in order, a cell marked
// present when the user was active on that date and absent otherwise.
func (t *Table) Row(username string, active contrib.DateSet, window []string) string {
	var b strings.Builder
	b.WriteString(pad(username, t.nameWidth))
	for _, date := range window {
		marker := absentMarker
		if active.Contains(date) {
			marker = presentMarker
		}
		b.WriteString(pad(marker, cellWidth))
	}
	return b.String()
}

// pad left-justifies s in a cell of exactly width characters, truncating
// when s is too long.
func pad(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
