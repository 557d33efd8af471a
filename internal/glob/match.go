// internal/glob/match.go
package glob

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jackchuka/sift/internal/model"
)

// Matcher tests paths against a single base+pattern glob.
type Matcher struct {
	entry   model.GlobEntry
	pattern string
}

// Compile joins the entry's base and pattern into one doublestar pattern.
// A bare "*.html" under "/proj" must not match "/proj/nested/a.html", so the
// base is escaped and prepended rather than matched separately.
func Compile(e model.GlobEntry) (*Matcher, error) {
	pattern := joinPattern(e.Base, filepath.ToSlash(e.Pattern))
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob %q: %w", e.String(), doublestar.ErrBadPattern)
	}
	return &Matcher{entry: e, pattern: pattern}, nil
}

// Match reports whether path is selected. Paths that are not valid UTF-8
// never match.
func (m *Matcher) Match(path string) bool {
	if !utf8.ValidString(path) {
		return false
	}
	return doublestar.MatchUnvalidated(m.pattern, filepath.ToSlash(filepath.Clean(path)))
}

// Entry returns the entry the matcher was compiled from.
func (m *Matcher) Entry() model.GlobEntry {
	return m.entry
}

// Pattern returns the combined pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// CompileAll compiles every entry, returning the matchers for the valid ones
// and one error per invalid entry.
func CompileAll(entries []model.GlobEntry) ([]*Matcher, []error) {
	var (
		matchers []*Matcher
		errs     []error
	)
	for _, e := range entries {
		m, err := Compile(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		matchers = append(matchers, m)
	}
	return matchers, errs
}

func joinPattern(base, pattern string) string {
	base = filepath.ToSlash(filepath.Clean(base))
	if base == "." {
		return pattern
	}
	return strings.TrimSuffix(escapeMeta(base), "/") + "/" + pattern
}

func escapeMeta(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
