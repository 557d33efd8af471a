// internal/glob/expand.go
package glob

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackchuka/sift/internal/model"
)

// maxExpansions caps the cartesian product of a single pattern.
const maxExpansions = 4096

var (
	errUnbalanced        = errors.New("unbalanced brace expression")
	errTooManyExpansions = errors.New("brace expression expands to too many patterns")
)

// Expand applies brace expansion to every entry. Patterns without
// alternation, or whose braces do not parse, are kept verbatim.
func Expand(entries []model.GlobEntry) []model.GlobEntry {
	out := make([]model.GlobEntry, 0, len(entries))
	for _, e := range entries {
		patterns, err := ExpandBraces(e.Pattern)
		if err != nil {
			out = append(out, e)
			continue
		}
		seen := make(map[string]struct{}, len(patterns))
		for _, p := range patterns {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, model.GlobEntry{Base: e.Base, Pattern: p})
		}
	}
	return out
}

// ExpandBraces expands "{a,b}" alternation groups and "{1..3}" numeric ranges
// into the cartesian product of concrete patterns. Groups may nest. A
// backslash escapes the next byte.
func ExpandBraces(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "{}") {
		return []string{pattern}, nil
	}

	p := &braceParser{src: pattern}
	seq, err := p.parseSeq(false)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, errUnbalanced
	}
	return seq.expand()
}

type braceNode struct {
	lit  string
	alts []braceSeq
}

type braceSeq []braceNode

type braceParser struct {
	src string
	pos int
}

func (p *braceParser) parseSeq(inGroup bool) (braceSeq, error) {
	var seq braceSeq
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			seq = append(seq, braceNode{lit: lit.String()})
			lit.Reset()
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			lit.WriteString(p.src[p.pos : p.pos+2])
			p.pos += 2
		case c == '{':
			open := p.pos
			p.pos++
			alts, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if len(alts) == 1 {
				// "{x}" is not an alternation; keep the braces unless it is a range.
				if r, ok := parseRange(p.src[open+1 : p.pos-1]); ok {
					flush()
					seq = append(seq, braceNode{alts: r})
					continue
				}
				lit.WriteByte('{')
				flush()
				seq = append(seq, alts[0]...)
				lit.WriteByte('}')
				continue
			}
			flush()
			seq = append(seq, braceNode{alts: alts})
		case (c == ',' || c == '}') && inGroup:
			flush()
			return seq, nil
		case c == '}':
			return nil, errUnbalanced
		default:
			lit.WriteByte(c)
			p.pos++
		}
	}

	if inGroup {
		return nil, errUnbalanced
	}
	flush()
	return seq, nil
}

// parseGroup parses alternatives up to and including the closing brace.
func (p *braceParser) parseGroup() ([]braceSeq, error) {
	var alts []braceSeq
	for {
		seq, err := p.parseSeq(true)
		if err != nil {
			return nil, err
		}
		alts = append(alts, seq)

		c := p.src[p.pos]
		p.pos++
		if c == '}' {
			return alts, nil
		}
	}
}

func parseRange(s string) ([]braceSeq, bool) {
	from, to, ok := strings.Cut(s, "..")
	if !ok {
		return nil, false
	}
	lo, err := strconv.Atoi(from)
	if err != nil {
		return nil, false
	}
	hi, err := strconv.Atoi(to)
	if err != nil {
		return nil, false
	}

	step := 1
	if hi < lo {
		step = -1
	}
	if (hi-lo)*step >= maxExpansions {
		return nil, false
	}

	var alts []braceSeq
	for i := lo; ; i += step {
		alts = append(alts, braceSeq{{lit: strconv.Itoa(i)}})
		if i == hi {
			break
		}
	}
	return alts, true
}

func (s braceSeq) expand() ([]string, error) {
	out := []string{""}
	for _, n := range s {
		if n.alts == nil {
			for i := range out {
				out[i] += n.lit
			}
			continue
		}

		var suffixes []string
		for _, alt := range n.alts {
			expanded, err := alt.expand()
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, expanded...)
		}

		if len(out)*len(suffixes) > maxExpansions {
			return nil, errTooManyExpansions
		}
		next := make([]string, 0, len(out)*len(suffixes))
		for _, prefix := range out {
			for _, suffix := range suffixes {
				next = append(next, prefix+suffix)
			}
		}
		out = next
	}
	return out, nil
}
