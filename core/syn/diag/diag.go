// Package diag renders source located diagnostics for query errors.
//
// A RenderedError is plain data: the message plus one Snippet per source
// location involved. String draws the snippets the way compilers do, with
// a gutter of line numbers and carets under the offending text.
package diag

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Location is a 1-based line and column. Columns count characters, not bytes.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Snippet is the source line containing an error location.
type Snippet struct {
	// Source is the text of the line, without its line terminator.
	Source   string
	Location Location
	// Offset and Length select the underlined characters within Source.
	Offset int
	Length int
	Label  string
}

// RenderedError is an error message with the source it refers to.
type RenderedError struct {
	Text     string
	Snippets []Snippet
}

// Error lets a RenderedError travel as an error value.
func (r RenderedError) Error() string {
	return r.String()
}

// LocationOf converts a byte offset in src to a line and column.
func LocationOf(src []byte, offset int) Location {
	if offset > len(src) {
		offset = len(src)
	}
	line, start := 1, 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return Location{Line: line, Column: utf8.RuneCount(src[start:offset]) + 1}
}

// NewSnippet builds the snippet for the byte range [offset, offset+length)
// of src. The underline is clipped to the end of the first line and is at
// least one character wide.
func NewSnippet(src []byte, offset, length int, label string) Snippet {
	if offset > len(src) {
		offset = len(src)
	}
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	line := strings.TrimSuffix(string(src[start:end]), "\r")

	spanEnd := offset + length
	if spanEnd > start+len(line) {
		spanEnd = start + len(line)
	}
	width := 1
	if spanEnd > offset {
		width = utf8.RuneCount(src[offset:spanEnd])
	}
	return Snippet{
		Source:   line,
		Location: LocationOf(src, offset),
		Offset:   utf8.RuneCount(src[start:offset]),
		Length:   width,
		Label:    label,
	}
}

// String draws the error:
//
//	Unexpected token ')' expected a value
//	 --> [1:8]
//	  |
//	1 | SELECT ) FROM person
//	  |        ^
func (r RenderedError) String() string {
	var sb strings.Builder
	sb.WriteString(r.Text)
	for _, s := range r.Snippets {
		sb.WriteByte('\n')
		s.render(&sb)
	}
	return sb.String()
}

func (s Snippet) render(sb *strings.Builder) {
	num := strconv.Itoa(s.Location.Line)
	pad := strings.Repeat(" ", len(num))

	sb.WriteString(pad)
	sb.WriteString("--> [")
	sb.WriteString(s.Location.String())
	sb.WriteString("]\n")

	sb.WriteString(pad)
	sb.WriteString(" |\n")

	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(s.Source)
	sb.WriteByte('\n')

	sb.WriteString(pad)
	sb.WriteString(" | ")
	sb.WriteString(strings.Repeat(" ", s.Offset))
	sb.WriteString(strings.Repeat("^", max(s.Length, 1)))
	if s.Label != "" {
		sb.WriteByte(' ')
		sb.WriteString(s.Label)
	}
}
