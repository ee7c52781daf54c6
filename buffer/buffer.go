// Package buffer defines the text-buffer surface the pipeline mutates, plus
// an in-memory implementation used by tests and the command line tool. The
// pipeline treats the buffer as a mutable string with line/column
// coordinates; all mutations are atomic range replacements and staleness is
// detected by content re-scan, never by version counters.
package buffer

import "strings"

// Pos is a zero-based line/column coordinate. Columns are byte offsets
// within the line.
type Pos struct {
	Line int
	Ch   int
}

// TextBuffer is the host editor surface consumed by the pipeline.
type TextBuffer interface {
	// Selection returns the currently selected text, "" when nothing is
	// selected.
	Selection() string

	// ReplaceSelection replaces the selection (or inserts at the cursor)
	// and leaves the cursor after the inserted text.
	ReplaceSelection(text string)

	// ReplaceRange atomically replaces the span between from and to.
	ReplaceRange(text string, from, to Pos)

	// SetSelection selects the span between from and to.
	SetSelection(from, to Pos)

	// Value returns the full buffer contents.
	Value() string

	// Cursor returns the current cursor position.
	Cursor() Pos

	// Line returns the contents of line n, without its trailing newline.
	// Out-of-range lines are empty.
	Line(n int) string
}

// PosAt converts a flat byte offset into a line/column position: the line is
// the number of newlines before the offset, the column the distance since
// the last one.
func PosAt(text string, offset int) Pos {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line := strings.Count(before, "\n")
	last := strings.LastIndexByte(before, '\n')
	return Pos{Line: line, Ch: offset - last - 1}
}
