// internal/sources/detect.go
package sources

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackchuka/sift/internal/model"
)

// Detector discovers the files under a root worth scanning and describes
// them as a compact set of globs.
type Detector struct {
	root   string
	walker *Walker
}

// NewDetector returns a detector for root. The default extension and file
// denylists are always applied on top of opts.
func NewDetector(root string, opts WalkOptions) *Detector {
	opts.IgnoredExtensions = append(slices.Clone(DefaultIgnoredExtensions), opts.IgnoredExtensions...)
	opts.IgnoredFiles = append(slices.Clone(DefaultIgnoredFiles), opts.IgnoredFiles...)
	return &Detector{root: filepath.Clean(root), walker: NewWalker(opts)}
}

// Detect walks the root once. Files directly under the root are covered by
// {root, "*"}; each immediate sub-directory that contributed files gets a
// recursive glob over the extensions seen in it, or "**/*" when it held a
// file without an extension.
func (d *Detector) Detect() ([]string, []model.GlobEntry) {
	files := d.walker.Walk(d.root)

	var (
		rootFiles bool
		order     []string
		subExts   = make(map[string]map[string]struct{})
		bare      = make(map[string]bool)
	)

	for _, f := range files {
		rel, err := filepath.Rel(d.root, f)
		if err != nil || rel == "." {
			continue
		}
		first, _, nested := strings.Cut(rel, string(filepath.Separator))
		if !nested {
			rootFiles = true
			continue
		}

		if _, ok := subExts[first]; !ok {
			subExts[first] = make(map[string]struct{})
			order = append(order, first)
		}
		ext := strings.TrimPrefix(filepath.Ext(f), ".")
		if ext == "" {
			bare[first] = true
			continue
		}
		subExts[first][ext] = struct{}{}
	}

	var globs []model.GlobEntry
	if rootFiles {
		globs = append(globs, model.GlobEntry{Base: d.root, Pattern: "*"})
	}

	slices.Sort(order)
	for _, sub := range order {
		globs = append(globs, model.GlobEntry{
			Base:    filepath.Join(d.root, sub),
			Pattern: extensionPattern(subExts[sub], bare[sub]),
		})
	}

	return files, globs
}

func extensionPattern(exts map[string]struct{}, bare bool) string {
	if bare || len(exts) == 0 {
		return "**/*"
	}
	list := make([]string, 0, len(exts))
	for ext := range exts {
		list = append(list, ext)
	}
	slices.Sort(list)
	if len(list) == 1 {
		return "**/*." + list[0]
	}
	return "**/*.{" + strings.Join(list, ",") + "}"
}
