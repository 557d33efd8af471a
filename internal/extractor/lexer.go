// internal/extractor/lexer.go
package extractor

import "unicode/utf8"

// maxDepth bounds bracket nesting inside a single candidate.
const maxDepth = 16

// lexer finds the extent of one token. It is reused across tokens of the same
// input, so the offset slices do not reallocate per token.
type lexer struct {
	in     []byte
	colons []int // top-level ':' offsets of the last token
	dots   []int // top-level '.' offsets of the last token, except decimal points
}

// lex scans the token that starts at start. The token ends at the first
// top-level byte that cannot be part of a candidate. ok is false when the
// token is unbalanced, contains bytes that are never allowed, or is not
// followed by a boundary; end is then the offset of the offending byte.
func (l *lexer) lex(start int) (end int, ok bool) {
	in := l.in
	l.colons = l.colons[:0]
	l.dots = l.dots[:0]

	var stack [maxDepth]byte
	depth := 0

	i := start
	for i < len(in) {
		c := in[i]

		if depth == 0 {
			if classes[c]&flagBody == 0 {
				break
			}
			switch c {
			case '.':
				if i == start || !isDigit(in[i-1]) || i+1 >= len(in) || !isDigit(in[i+1]) {
					l.dots = append(l.dots, i)
				}
			case ':':
				l.colons = append(l.colons, i)
			case '(':
				if i == start || in[i-1] != '-' {
					return i, false
				}
				stack[0] = ')'
				depth = 1
			case '[':
				stack[0] = ']'
				depth = 1
			case ']', ')':
				return i, false
			}
			i++
			continue
		}

		switch {
		case c <= ' ' || c == 0x7f:
			return i, false
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(in[i:])
			if r == utf8.RuneError && size <= 1 {
				return i, false
			}
			i += size
			continue
		case c == '"' || c == '\'' || c == '`':
			q := closeQuote(in, i)
			if q < 0 {
				return i, false
			}
			i = q
		case c == '[' || c == '(':
			if depth == maxDepth {
				return i, false
			}
			stack[depth] = closerOf(c)
			depth++
		case c == ']' || c == ')':
			if stack[depth-1] != c {
				return i, false
			}
			depth--
		}
		i++
	}

	if depth > 0 || !followedByBoundary(in, i) {
		return i, false
	}
	return i, true
}

func closerOf(c byte) byte {
	if c == '(' {
		return ')'
	}
	return ']'
}

// closeQuote returns the offset of the quote closing the one at i, or -1 when
// the string is unterminated or holds whitespace, control bytes or broken
// UTF-8.
func closeQuote(in []byte, i int) int {
	q := in[i]
	for j := i + 1; j < len(in); {
		c := in[j]
		switch {
		case c == q:
			return j
		case c == '\\' && j+1 < len(in) && in[j+1] > ' ' && in[j+1] < utf8.RuneSelf:
			j += 2
		case c <= ' ' || c == 0x7f:
			return -1
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(in[j:])
			if r == utf8.RuneError && size <= 1 {
				return -1
			}
			j += size
		default:
			j++
		}
	}
	return -1
}

// matchBracket returns the offset of the bracket closing the one at s[i], or
// -1. Quoted strings are skipped.
func matchBracket(s []byte, i int) int {
	var stack [maxDepth]byte
	depth := 0
	for j := i; j < len(s); j++ {
		switch c := s[j]; c {
		case '[', '(':
			if depth == maxDepth {
				return -1
			}
			stack[depth] = closerOf(c)
			depth++
		case ']', ')':
			if depth == 0 || stack[depth-1] != c {
				return -1
			}
			depth--
			if depth == 0 {
				return j
			}
		case '"', '\'', '`':
			if depth == 0 {
				return -1
			}
			q := closeQuote(s, j)
			if q < 0 {
				return -1
			}
			j = q
		}
	}
	return -1
}
