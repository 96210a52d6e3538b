package stream

import (
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Lines reassembles decoded text into complete lines, carrying an
// unterminated trailing line over to the next write. A Lines must not be
// copied after first use.
type Lines struct {
	buf strings.Builder
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Write appends text to the buffer and returns the lines it completed,
// in order, without their terminators. A CR before the LF is dropped.
// Only text is scanned, so a long line arriving in many writes is
// assembled in linear time.
func (l *Lines) Write(text string) []string {
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			l.buf.WriteString(text)
			return lines
		}
		line := text[:i]
		if l.buf.Len() > 0 {
			l.buf.WriteString(line)
			line = l.buf.String()
			l.buf.Reset()
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		text = text[i+1:]
	}
}

// Pending returns the text not yet terminated by a line break.
func (l *Lines) Pending() string {
	return l.buf.String()
}

// Reset discards any unterminated text.
func (l *Lines) Reset() {
	l.buf.Reset()
}
