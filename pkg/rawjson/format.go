package rawjson

import "strings"

// DefaultIndent is the indentation unit used by Format.
const DefaultIndent = "    "

// Format pretty-prints minified JSON-shaped text with DefaultIndent.
func Format(compact string) string {
	return FormatIndent(compact, DefaultIndent)
}

// FormatIndent pretty-prints compact using unit for each nesting level.
//
// Opening brackets and commas are followed by a newline and indentation,
// closing brackets are preceded by one, and colons gain a trailing space.
// Everything else, including any whitespace already present, is copied.
// The input is not validated and FormatIndent never fails: unbalanced
// brackets only produce odd-looking indentation.
func FormatIndent(compact, unit string) string {
	var b strings.Builder
	b.Grow(len(compact) * 2)

	sc := scanner{src: compact}
	depth := 0
	for !sc.done() {
		tok, literal := sc.next()
		if literal {
			b.WriteString(tok)
			continue
		}

		switch tok[0] {
		case '{', '[':
			depth++
			b.WriteString(tok)
			writeNewline(&b, unit, depth)
		case '}', ']':
			depth--
			writeNewline(&b, unit, depth)
			b.WriteString(tok)
		case ',':
			b.WriteString(tok)
			writeNewline(&b, unit, depth)
		case ':':
			b.WriteString(": ")
		default:
			b.WriteString(tok)
		}
	}
	return b.String()
}

func writeNewline(b *strings.Builder, unit string, depth int) {
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(unit)
	}
}
