// internal/glob/optimize.go
package glob

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackchuka/sift/internal/model"
)

// Optimize reduces entries to an equivalent, smaller set: exact duplicates
// are dropped, entries covered by a "**/*" entry at the same or an ancestor
// base are dropped, and the remaining patterns that share a base are merged
// into one brace group. The result is sorted by base.
func Optimize(entries []model.GlobEntry) []model.GlobEntry {
	byBase := make(map[string][]string)
	var recursive []string

	for _, e := range entries {
		base := filepath.Clean(e.Base)
		if slices.Contains(byBase[base], e.Pattern) {
			continue
		}
		byBase[base] = append(byBase[base], e.Pattern)
		if e.Pattern == recursiveWildcard {
			recursive = append(recursive, base)
		}
	}

	bases := make([]string, 0, len(byBase))
	for base := range byBase {
		bases = append(bases, base)
	}
	slices.Sort(bases)

	out := make([]model.GlobEntry, 0, len(bases))
	for _, base := range bases {
		if coveredByAncestor(base, recursive) {
			continue
		}

		patterns := byBase[base]
		if slices.Contains(patterns, recursiveWildcard) {
			out = append(out, model.GlobEntry{Base: base, Pattern: recursiveWildcard})
			continue
		}

		slices.Sort(patterns)
		if len(patterns) == 1 {
			out = append(out, model.GlobEntry{Base: base, Pattern: patterns[0]})
			continue
		}
		alts := make([]string, len(patterns))
		for i, p := range patterns {
			alts[i] = escapeTopLevelCommas(p)
		}
		out = append(out, model.GlobEntry{
			Base:    base,
			Pattern: "{" + strings.Join(alts, ",") + "}",
		})
	}
	return out
}

func coveredByAncestor(base string, recursive []string) bool {
	for _, r := range recursive {
		if r != base && isWithin(base, r) {
			return true
		}
	}
	return false
}

// isWithin reports whether path lies strictly inside dir. Both are cleaned.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// escapeTopLevelCommas keeps literal commas literal once the pattern becomes
// one alternative of a brace group.
func escapeTopLevelCommas(p string) string {
	if !strings.ContainsRune(p, ',') {
		return p
	}
	var b strings.Builder
	depth := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '\\' && i+1 < len(p):
			b.WriteByte(c)
			i++
			c = p[i]
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
