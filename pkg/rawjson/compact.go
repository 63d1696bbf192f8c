package rawjson

import "strings"

// Compact removes every space, tab, CR and LF that sits outside a string
// literal. It is the inverse of Format: Compact(Format(m)) == m for any
// text m without insignificant whitespace.
func Compact(pretty string) string {
	var b strings.Builder
	b.Grow(len(pretty))

	sc := scanner{src: pretty}
	for !sc.done() {
		tok, literal := sc.next()
		if !literal && isSpace(tok[0]) {
			continue
		}
		b.WriteString(tok)
	}
	return b.String()
}

// IsCompact reports whether s has no whitespace outside string literals.
func IsCompact(s string) bool {
	sc := scanner{src: s}
	for !sc.done() {
		tok, literal := sc.next()
		if !literal && isSpace(tok[0]) {
			return false
		}
	}
	return true
}
