// internal/sources/walker.go
package sources

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// WalkOptions configures which entries a Walker skips besides ignore rules.
type WalkOptions struct {
	IgnoredDirs       []string
	IgnoredExtensions []string
	IgnoredFiles      []string
	Logger            *slog.Logger
}

// Walker enumerates regular files under a root, honouring .gitignore files,
// the enclosing repository's info/exclude and configured skip lists.
type Walker struct {
	dirs  map[string]struct{}
	exts  map[string]struct{}
	files map[string]struct{}
	log   *slog.Logger
}

func NewWalker(opts WalkOptions) *Walker {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Walker{
		dirs:  toSet(opts.IgnoredDirs, nil),
		exts:  toSet(opts.IgnoredExtensions, normalizeExt),
		files: toSet(opts.IgnoredFiles, nil),
		log:   log.With(slog.String("component", "sources")),
	}
}

// Walk returns the files under root in lexical order. A root that is a
// regular file yields itself. Unreadable entries are logged and skipped.
func (w *Walker) Walk(root string) []string {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		w.log.Warn("skipping unreadable root", slog.String("path", root), slog.Any("error", err))
		return nil
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() && !w.skipFile(filepath.Base(root)) {
			return []string{root}
		}
		return nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		w.log.Warn("skipping root", slog.String("path", root), slog.Any("error", err))
		return nil
	}

	ig := newIgnorer(absRoot, w.log)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skipping unreadable entry", slog.String("path", path), slog.Any("error", err))
			return nil
		}

		abs := absRoot
		if path != root {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			abs = filepath.Join(absRoot, rel)
		}

		if d.IsDir() {
			if path == root {
				ig.enter(abs)
				return nil
			}
			if d.Name() == ".git" || w.skipDir(d.Name()) || ig.ignored(abs, true) {
				return fs.SkipDir
			}
			ig.enter(abs)
			return nil
		}

		if !d.Type().IsRegular() || d.Name() == ".git" {
			return nil
		}
		if w.skipFile(d.Name()) || ig.ignored(abs, false) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		w.log.Warn("walk aborted", slog.String("root", root), slog.Any("error", err))
	}

	return files
}

func (w *Walker) skipDir(name string) bool {
	_, ok := w.dirs[name]
	return ok
}

func (w *Walker) skipFile(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	if len(w.exts) == 0 {
		return false
	}
	_, ok := w.exts[extOf(name)]
	return ok
}
