// internal/extractor/class.go
package extractor

import "encoding/binary"

const (
	flagBefore uint8 = 1 << iota // may directly precede a candidate
	flagAfter                    // may directly follow a candidate
	flagStart                    // may open a candidate
	flagBody                     // may appear outside brackets inside a candidate
)

// Eight spaces, used to skip indentation a word at a time.
const spaces8 = 0x2020202020202020

var classes = buildClasses()

func buildClasses() [256]uint8 {
	var t [256]uint8

	for _, c := range []byte(" \t\n\r\f\v\"'`") {
		t[c] |= flagBefore | flagAfter
	}

	t['.'] |= flagBefore | flagBody
	t['{'] |= flagBefore
	t['}'] |= flagBefore | flagAfter
	t['>'] |= flagBefore
	t['<'] |= flagAfter
	t['='] |= flagAfter

	for c := 'a'; c <= 'z'; c++ {
		t[c] |= flagStart | flagBody
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] |= flagStart | flagBody
	}
	for c := '0'; c <= '9'; c++ {
		t[c] |= flagStart | flagBody
	}
	for _, c := range []byte("-!@[*") {
		t[c] |= flagStart | flagBody
	}
	for _, c := range []byte("_:/()]") {
		t[c] |= flagBody
	}

	return t
}

// skipIrrelevant advances past bytes that cannot open a candidate. Runs of
// spaces and NUL bytes are consumed eight at a time.
func skipIrrelevant(in []byte, pos int) int {
	for pos < len(in) {
		if pos+8 <= len(in) {
			if w := binary.LittleEndian.Uint64(in[pos:]); w == spaces8 || w == 0 {
				pos += 8
				continue
			}
		}
		if classes[in[pos]]&flagStart != 0 {
			return pos
		}
		pos++
	}
	return pos
}

// skipWord advances to the next byte that may precede a candidate.
func skipWord(in []byte, pos int) int {
	for pos < len(in) && classes[in[pos]]&flagBefore == 0 {
		pos++
	}
	return pos
}

func precededByBoundary(in []byte, pos int) bool {
	return pos == 0 || classes[in[pos-1]]&flagBefore != 0
}

func followedByBoundary(in []byte, end int) bool {
	return end == len(in) || classes[in[end]]&flagAfter != 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}
