// internal/glob/partition.go
package glob

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jackchuka/sift/internal/model"
)

const recursiveWildcard = "**/*"

// IsAutoDetect reports whether the entry should be promoted to auto
// detection: its pattern ends with "**/*" or it names an existing directory.
func IsAutoDetect(e model.GlobEntry) bool {
	if strings.HasSuffix(e.Pattern, recursiveWildcard) {
		return true
	}
	info, err := os.Stat(e.Path())
	return err == nil && info.IsDir()
}

// Partition splits entries into auto-detect entries and explicit glob
// entries, preserving order within each group.
func Partition(entries []model.GlobEntry) (auto, explicit []model.GlobEntry) {
	for _, e := range entries {
		if IsAutoDetect(e) {
			auto = append(auto, e)
		} else {
			explicit = append(explicit, e)
		}
	}
	return auto, explicit
}

// AutoDetectRoot returns the directory an auto-detect entry is rooted at.
func AutoDetectRoot(e model.GlobEntry) string {
	rest := strings.TrimSuffix(e.Pattern, recursiveWildcard)
	if rest == "" {
		return filepath.Clean(e.Base)
	}
	return filepath.Join(e.Base, rest)
}
