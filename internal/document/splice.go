package document

import (
	"bytes"
	"strings"

	"github.com/creachadair/tomledit"
)

// Line-wise editing of the raw text. The parsed document records the input
// line of every heading and key-value, which pins the span a mutation is
// allowed to rewrite; everything outside that span is carried over
// verbatim.

func splitLines(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	return strings.Split(string(raw), "\n")
}

func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

// replaceLines substitutes repl for lines[start:end) of the raw text. The
// caller reparses afterwards.
func (d *Document) replaceLines(start, end int, repl ...string) {
	lines := splitLines(d.raw)
	out := make([]string, 0, len(lines)-(end-start)+len(repl))
	out = append(out, lines[:start]...)
	out = append(out, repl...)
	out = append(out, lines[end:]...)
	d.raw = joinLines(out)
}

// appendLines adds a block of lines at the end of the raw text, separated
// from existing content by one blank line.
func (d *Document) appendLines(block ...string) {
	var b bytes.Buffer
	b.Write(d.raw)
	if n := len(d.raw); n > 0 {
		if d.raw[n-1] != '\n' {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	for _, line := range block {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	d.raw = b.Bytes()
}

// trimTrailingBlanks collapses blank lines left at the end of the text
// after a section removal.
func (d *Document) trimTrailingBlanks() {
	for bytes.HasSuffix(d.raw, []byte("\n\n")) {
		d.raw = d.raw[:len(d.raw)-1]
	}
}

// sectionRange returns the 0-based [start, end) line span of s, from its
// heading line to the start of the section that follows. The block comment
// above s's own heading is not part of the span, and neither is the block
// comment attached to the next section's heading.
func (d *Document) sectionRange(s *tomledit.Section) (start, end int) {
	lines := splitLines(d.raw)
	start = s.Heading.Line - 1
	end = len(lines)
	if end > 0 && lines[end-1] == "" {
		end-- // final newline artifact, not a document line
	}
	for _, next := range d.doc.Sections {
		if next.Heading.Line <= s.Heading.Line {
			continue
		}
		ns := next.Heading.Line - 1 - len(next.Heading.Block)
		if ns < end {
			end = ns
		}
	}
	return start, end
}

// valueSpan scans the key-value beginning on line start and returns the
// index just past its final line, plus any trailing comment found there.
// Bracket depth is tracked outside strings so multi-line arrays count as
// one span.
func valueSpan(lines []string, start int) (end int, trailer string) {
	depth := 0
	for i := start; i < len(lines); i++ {
		comment := scanValueLine(lines[i], &depth)
		if depth <= 0 {
			if comment >= 0 {
				trailer = strings.TrimSpace(lines[i][comment:])
			}
			return i + 1, trailer
		}
	}
	return len(lines), ""
}

// scanValueLine walks one line, adjusting bracket depth for [ ] { } outside
// of strings, and returns the byte offset of a trailing comment, -1 when
// the line has none.
func scanValueLine(line string, depth *int) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '"':
			if c == '\\' {
				i++
			} else if c == '"' {
				quote = 0
			}
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return i
		case c == '[' || c == '{':
			*depth++
		case c == ']' || c == '}':
			*depth--
		}
	}
	return -1
}
