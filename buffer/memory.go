package buffer

import "strings"

// Memory is an in-memory TextBuffer with a cursor and an optional selection.
// Mutations from multiple goroutines must be serialized by the caller, the
// same contract a host editor's UI thread provides.
type Memory struct {
	text     []byte
	selStart int // byte offset; selStart == selEnd means no selection
	selEnd   int // cursor lives at selEnd
}

// NewMemory creates a buffer with the cursor at the end of text.
func NewMemory(text string) *Memory {
	m := &Memory{text: []byte(text)}
	m.selStart = len(m.text)
	m.selEnd = len(m.text)
	return m
}

// Value returns the full buffer contents.
func (m *Memory) Value() string {
	return string(m.text)
}

// Selection returns the selected text.
func (m *Memory) Selection() string {
	return string(m.text[m.selStart:m.selEnd])
}

// ReplaceSelection splices text over the selection, collapsing the cursor to
// just after it.
func (m *Memory) ReplaceSelection(text string) {
	m.splice(text, m.selStart, m.selEnd)
	m.selStart += len(text)
	m.selEnd = m.selStart
}

// ReplaceRange atomically replaces the span between from and to.
func (m *Memory) ReplaceRange(text string, from, to Pos) {
	start := m.offsetAt(from)
	end := m.offsetAt(to)
	if end < start {
		start, end = end, start
	}
	m.splice(text, start, end)

	// Keep the cursor stable relative to the edit.
	delta := len(text) - (end - start)
	m.selStart = shift(m.selStart, start, end, delta)
	m.selEnd = shift(m.selEnd, start, end, delta)
}

// SetSelection selects the span between from and to.
func (m *Memory) SetSelection(from, to Pos) {
	m.selStart = m.offsetAt(from)
	m.selEnd = m.offsetAt(to)
	if m.selEnd < m.selStart {
		m.selStart, m.selEnd = m.selEnd, m.selStart
	}
}

// SetCursor collapses the selection to a single position.
func (m *Memory) SetCursor(p Pos) {
	off := m.offsetAt(p)
	m.selStart = off
	m.selEnd = off
}

// Cursor returns the current cursor position.
func (m *Memory) Cursor() Pos {
	return PosAt(string(m.text), m.selEnd)
}

// Line returns line n without its trailing newline.
func (m *Memory) Line(n int) string {
	if n < 0 {
		return ""
	}
	lines := strings.Split(string(m.text), "\n")
	if n >= len(lines) {
		return ""
	}
	return lines[n]
}

func (m *Memory) splice(text string, start, end int) {
	out := make([]byte, 0, len(m.text)+len(text)-(end-start))
	out = append(out, m.text[:start]...)
	out = append(out, text...)
	out = append(out, m.text[end:]...)
	m.text = out
}

func (m *Memory) offsetAt(p Pos) int {
	if p.Line < 0 {
		return 0
	}
	off := 0
	text := string(m.text)
	for l := 0; l < p.Line; l++ {
		next := strings.IndexByte(text[off:], '\n')
		if next < 0 {
			return len(text)
		}
		off += next + 1
	}
	lineEnd := len(text)
	if next := strings.IndexByte(text[off:], '\n'); next >= 0 {
		lineEnd = off + next
	}
	off += p.Ch
	if off > lineEnd {
		off = lineEnd
	}
	return off
}

func shift(off, start, end, delta int) int {
	switch {
	case off <= start:
		return off
	case off >= end:
		return off + delta
	default:
		return start
	}
}
