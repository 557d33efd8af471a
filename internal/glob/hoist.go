// internal/glob/hoist.go
package glob

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jackchuka/sift/internal/model"
)

// Hoist moves the wildcard-free leading directories of each pattern into
// its base, so "src/**/*.ts" under "/proj" becomes "**/*.ts" under
// "/proj/src". The matched file set is unchanged.
func Hoist(entries []model.GlobEntry) []model.GlobEntry {
	out := make([]model.GlobEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, hoistOne(e))
	}
	return out
}

func hoistOne(e model.GlobEntry) model.GlobEntry {
	prefix, rest := doublestar.SplitPattern(filepath.ToSlash(e.Pattern))
	switch prefix {
	case ".":
		return e
	case "/":
		return model.GlobEntry{Base: "/", Pattern: rest}
	}
	return model.GlobEntry{
		Base:    filepath.Join(e.Base, filepath.FromSlash(prefix)),
		Pattern: rest,
	}
}
