// Package extractor pulls utility-class candidates out of arbitrary bytes.
//
// Candidates are classified by lexical shape only. Every returned candidate
// is valid UTF-8: outside brackets only ASCII is accepted, and inside
// brackets non-ASCII bytes are accepted only as complete runes.
package extractor

import "github.com/jackchuka/sift/internal/model"

// Unique returns the distinct candidates in input, in order of first
// occurrence.
func Unique(input []byte) []string {
	seen := make(map[string]struct{})
	var out []string
	each(input, func(start, end int) {
		b := input[start:end]
		if _, ok := seen[string(b)]; ok {
			return
		}
		s := string(b)
		seen[s] = struct{}{}
		out = append(out, s)
	})
	return out
}

// WithPositions returns every candidate occurrence in source order, keeping
// duplicates. Offsets are byte offsets into input.
func WithPositions(input []byte) []model.Position {
	var out []model.Position
	each(input, func(start, end int) {
		out = append(out, model.Position{
			Candidate: string(input[start:end]),
			Offset:    start,
		})
	})
	return out
}

// each drives a single forward pass over in and calls emit for every
// candidate span. The cursor never moves back before the start of the
// token being examined.
func each(in []byte, emit func(start, end int)) {
	l := lexer{in: in}
	var segColons []int

	pos := 0
	for pos < len(in) {
		pos = skipIrrelevant(in, pos)
		if pos >= len(in) {
			return
		}

		if !precededByBoundary(in, pos) {
			pos = skipWord(in, pos)
			continue
		}

		end, ok := l.lex(pos)
		if ok {
			if utility, valid := validate(in, pos, end, l.colons); valid {
				emit(pos, end)
				if utility > pos {
					emit(utility, end)
				}
				pos = end
				continue
			}
		}

		// A rejected bracket may be an array literal: look again inside it
		// so quoted strings like ['p-4', 'flex'] are still found.
		if in[pos] == '[' && end > pos+1 {
			pos++
			continue
		}

		if len(l.dots) > 0 {
			segColons = eachSegment(in, pos, end, ok, &l, segColons, emit)
		}
		if end <= pos {
			end = pos + 1
		}
		pos = end
	}
}

// eachSegment retries a rejected token like "div.flex.p-4" one
// dot-separated segment at a time. A segment counts when a '.' precedes it,
// so the head of the chain ("div") is skipped unless it follows a dot
// itself. The last segment only counts when the whole token lexed cleanly.
func eachSegment(in []byte, pos, end int, ok bool, l *lexer, colons []int, emit func(start, end int)) []int {
	starts := l.dots
	for i := -1; i < len(starts); i++ {
		s := pos
		if i >= 0 {
			s = starts[i] + 1
		} else if pos == 0 || in[pos-1] != '.' {
			continue
		}

		e := end
		if i+1 < len(starts) {
			e = starts[i+1]
		} else if !ok {
			break
		}
		if s >= e {
			continue
		}

		colons = colons[:0]
		for _, c := range l.colons {
			if c > s && c < e {
				colons = append(colons, c)
			}
		}
		if utility, valid := validate(in, s, e, colons); valid {
			emit(s, e)
			if utility > s {
				emit(utility, e)
			}
		}
	}
	return colons
}
