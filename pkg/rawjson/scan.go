// Package rawjson reshapes JSON-shaped text without parsing it. Formatting
// and compaction scan the text once, tracking only whether the cursor is
// inside a string literal, so numbers, key order and string contents come
// out exactly as they went in.
package rawjson

// scanner walks src one unit at a time. A unit is a single byte, or a
// backslash and the byte after it when inside a string literal. Every
// structural character is ASCII and never appears inside a multi-byte
// UTF-8 sequence, so scanning bytes is safe for any valid UTF-8 input.
type scanner struct {
	src      string
	pos      int
	inString bool
}

func (s *scanner) done() bool {
	return s.pos >= len(s.src)
}

// next returns the next unit and whether it belongs to a string literal,
// quotes included.
func (s *scanner) next() (unit string, literal bool) {
	start := s.pos
	c := s.src[start]

	if s.inString {
		switch {
		case c == '\\' && start+1 < len(s.src):
			// An escaped quote must not end the literal.
			s.pos += 2
			return s.src[start:s.pos], true
		case c == '"':
			s.inString = false
		}
		s.pos++
		return s.src[start:s.pos], true
	}

	s.pos++
	if c == '"' {
		s.inString = true
		return s.src[start:s.pos], true
	}
	return s.src[start:s.pos], false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
